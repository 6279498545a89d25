package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/logger"
	"github.com/leonardcser/redis-basic/internal/store"
)

// StoreHandler returns the MCP tool handler for the "kv-store" tool.
func StoreHandler(s store.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		value, err := ParseValue(raw, req.GetString("type", "text"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		key, err := s.Store(ctx, value)
		if err != nil {
			logger.Errorf("kv-store: %v", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(key), nil
	}
}

// GetHandler returns the MCP tool handler for the "kv-get" tool.
func GetHandler(s store.Store) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		out, err := Lookup(ctx, s, key, req.GetString("as", "raw"))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

// ReplayHandler returns the MCP tool handler for the "kv-replay" tool.
func ReplayHandler(backend kv.Backend) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		op := store.Op(req.GetString("operation", string(store.OpStore)))
		var sb strings.Builder
		if err := store.Replay(ctx, &sb, backend, op); err != nil {
			logger.Errorf("kv-replay %s: %v", op, err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// CountHandler returns the MCP tool handler for the "kv-count" tool.
func CountHandler(backend kv.Backend) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		op := store.Op(req.GetString("operation", string(store.OpStore)))
		n, err := store.CallCount(ctx, backend, op)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(strconv.FormatInt(n, 10)), nil
	}
}

// ParseValue converts the textual form of a value to the Go type Store
// expects for kind: "text", "int" or "float".
func ParseValue(raw, kind string) (any, error) {
	switch kind {
	case "", "text":
		return raw, nil
	case "int":
		return strconv.ParseInt(raw, 10, 64)
	case "float":
		return strconv.ParseFloat(raw, 64)
	default:
		return nil, fmt.Errorf("unknown value type %q (want text, int or float)", kind)
	}
}

// Lookup reads key through s and renders it according to as: "raw" shows
// the stored bytes as logged by call history, "int" and "text" convert them.
func Lookup(ctx context.Context, s store.Store, key, as string) (string, error) {
	switch as {
	case "", "raw":
		raw, err := s.Get(ctx, key)
		if err != nil {
			return "", err
		}
		return store.FormatResult(raw), nil
	case "int":
		n, err := store.RetrieveInt(ctx, s, key)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case "text":
		return store.RetrieveString(ctx, s, key)
	default:
		return "", fmt.Errorf("unknown conversion %q (want raw, int or text)", as)
	}
}
