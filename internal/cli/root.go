// Package cli implements the redis-basic command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leonardcser/redis-basic/internal/config"
	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/logger"
)

// RootOptions holds global flags for all commands. Empty flags fall back
// to the environment configuration.
type RootOptions struct {
	Backend    string
	BoltPath   string
	RedisAddr  string
	SocketPath string

	cfg config.Config
}

// NewRootCommand creates the root command for the redis-basic CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "redis-basic",
		Short: "Instrumented key-value store and cached page fetcher",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = opts.apply(cfg)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "key-value backend (bolt|redis|socket)")
	cmd.PersistentFlags().StringVar(&opts.BoltPath, "bolt", "", "path to the bbolt database")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis-addr", "", "Redis server address")
	cmd.PersistentFlags().StringVar(&opts.SocketPath, "sock", "", "kv daemon socket path")

	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))

	return cmd
}

func (o *RootOptions) apply(cfg config.Config) config.Config {
	if o.Backend != "" {
		cfg.Backend = kv.Kind(o.Backend)
	}
	if o.BoltPath != "" {
		cfg.BoltPath = o.BoltPath
	}
	if o.RedisAddr != "" {
		cfg.RedisAddr = o.RedisAddr
	}
	if o.SocketPath != "" {
		cfg.SocketPath = o.SocketPath
	}
	return cfg
}

// openBackend opens the configured backend. The caller closes it.
func (o *RootOptions) openBackend(ctx context.Context) (kv.Backend, error) {
	b, err := kv.Open(ctx, o.cfg.KVOptions())
	if err != nil {
		logger.Errorf("open %s backend: %v", o.cfg.Backend, err)
		return nil, fmt.Errorf("open %s backend: %w", o.cfg.Backend, err)
	}
	return b, nil
}
