package kv

import (
	"context"
	"encoding/json"
	"errors"
	"net"

	"github.com/leonardcser/redis-basic/internal/logger"
)

// Serve accepts connections on l and answers protocol requests against b
// until l is closed. It returns nil once the listener is closed.
func Serve(l net.Listener, b Backend) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Warnf("kv: accept: %v", err)
			continue
		}
		go handleConn(conn, b)
	}
}

func handleConn(conn net.Conn, b Backend) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		_ = enc.Encode(dispatch(context.Background(), b, req))
	}
}

func dispatch(ctx context.Context, b Backend, req Request) Response {
	var (
		resp = Response{OK: true}
		err  error
	)
	switch req.Op {
	case OpSet:
		err = b.Set(ctx, req.Key, req.Value)
	case OpGet:
		resp.Value, err = b.Get(ctx, req.Key)
	case OpIncr:
		resp.Int, err = b.Incr(ctx, req.Key, req.Amount)
	case OpRPush:
		resp.Int, err = b.RPush(ctx, req.Key, req.Value)
	case OpLRange:
		resp.Values, err = b.LRange(ctx, req.Key, req.Start, req.Stop)
	case OpFlushDB:
		err = b.FlushDB(ctx)
	default:
		return Response{OK: false, Error: "unknown op"}
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Errorf("kv: %s %q: %v", req.Op, req.Key, err)
		}
		return Response{OK: false, Error: err.Error()}
	}
	return resp
}
