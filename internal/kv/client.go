package kv

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"
)

// Client implements Backend over a Unix socket served by Serve.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Dial probes the socket and returns a Client when a daemon is listening.
func Dial(socketPath string) (*Client, error) {
	conn, err := net.DialTimeout("unix", socketPath, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	_ = conn.Close()
	return NewClient(socketPath), nil
}

// Close is a no-op; every call uses its own connection.
func (c *Client) Close() error { return nil }

func (c *Client) do(ctx context.Context, req Request) (Response, error) {
	var resp Response
	d := net.Dialer{Timeout: 500 * time.Millisecond}
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return resp, err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(&req); err != nil {
		return resp, err
	}
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return resp, err
	}
	if !resp.OK {
		if resp.Error == ErrNotFound.Error() {
			return resp, ErrNotFound
		}
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}

func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.do(ctx, Request{Op: OpSet, Key: key, Value: value})
	return err
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.do(ctx, Request{Op: OpGet, Key: key})
	if err != nil {
		return nil, err
	}
	if resp.Value == nil {
		// omitempty drops an empty value; it was still present.
		return []byte{}, nil
	}
	return resp.Value, nil
}

func (c *Client) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	resp, err := c.do(ctx, Request{Op: OpIncr, Key: key, Amount: amount})
	return resp.Int, err
}

func (c *Client) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	resp, err := c.do(ctx, Request{Op: OpRPush, Key: key, Value: value})
	return resp.Int, err
}

func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error) {
	resp, err := c.do(ctx, Request{Op: OpLRange, Key: key, Start: start, Stop: stop})
	if err != nil {
		return nil, err
	}
	for i, v := range resp.Values {
		if v == nil {
			resp.Values[i] = []byte{}
		}
	}
	return resp.Values, nil
}

func (c *Client) FlushDB(ctx context.Context) error {
	_, err := c.do(ctx, Request{Op: OpFlushDB})
	return err
}
