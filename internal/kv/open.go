package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Kind selects a Backend implementation.
type Kind string

const (
	KindBolt   Kind = "bolt"
	KindRedis  Kind = "redis"
	KindSocket Kind = "socket"
)

// Options carries the settings of every backend kind; only the fields of
// the selected Kind are read.
type Options struct {
	Kind       Kind
	BoltPath   string
	Redis      RedisOptions
	SocketPath string
}

// Open returns the Backend selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindBolt, "":
		if err := ensureParentDir(opts.BoltPath); err != nil {
			return nil, err
		}
		return OpenBolt(opts.BoltPath)
	case KindRedis:
		return OpenRedis(ctx, opts.Redis)
	case KindSocket:
		return Dial(opts.SocketPath)
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", opts.Kind)
	}
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
