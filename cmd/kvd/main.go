package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/leonardcser/redis-basic/internal/config"
	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	// Ensure socket dir exists and remove stale socket
	_ = os.MkdirAll(filepath.Dir(cfg.SocketPath), 0o755)
	_ = os.Remove(cfg.SocketPath)

	l, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		logger.Errorf("listen %s: %v", cfg.SocketPath, err)
		panic(err)
	}
	_ = os.Chmod(cfg.SocketPath, 0o600)

	// The daemon always serves a bbolt file; other kinds are for clients.
	opts := cfg.KVOptions()
	opts.Kind = kv.KindBolt
	backend, err := kv.Open(context.Background(), opts)
	if err != nil {
		logger.Errorf("open %s: %v", cfg.BoltPath, err)
		panic(err)
	}
	defer backend.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Infof("Shutting down kv daemon")
		_ = l.Close()
	}()

	logger.Infof("Serving %s on %s", cfg.BoltPath, cfg.SocketPath)
	if err := kv.Serve(l, backend); err != nil {
		logger.Errorf("serve: %v", err)
	}
}
