package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/redis-basic/internal/config"
	"github.com/leonardcser/redis-basic/internal/kv"
	"github.com/leonardcser/redis-basic/internal/logger"
	"github.com/leonardcser/redis-basic/internal/store"
	"github.com/leonardcser/redis-basic/internal/ttlcache"
	tools "github.com/leonardcser/redis-basic/internal/tools"
	web "github.com/leonardcser/redis-basic/internal/web"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting redis-basic MCP server")

	cfg, err := config.Load()
	if err != nil {
		logger.Errorf("config: %v", err)
		panic(err)
	}

	ctx := context.Background()
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Errorf("Failed to open %s backend: %v", cfg.Backend, err)
		panic(err)
	}
	defer backend.Close()
	logger.Infof("Connected to %s backend", cfg.Backend)

	// A new server starts from an empty backend, counters and history included.
	facade, err := store.NewInstrumented(ctx, backend)
	if err != nil {
		logger.Errorf("Failed to initialize store: %v", err)
		panic(err)
	}

	pages, err := ttlcache.New[string](cfg.CacheOptions())
	if err != nil {
		panic(err)
	}
	fetcher := web.NewFetcher(pages, web.NewCollyGetter(cfg.FetchTimeout))
	logger.Infof("Initialized page fetcher with %s cache", pages.TTL())

	s := server.NewMCPServer(
		"redis-basic",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	toolStore := mcp.NewTool("kv-store",
		mcp.WithDescription(multiline(
			"Stores a value under a fresh random key and returns the key",
			"- Every call is counted and recorded in the Cache.store call history",
		)),
		mcp.WithString("value", mcp.Required(), mcp.Description("The value to store")),
		mcp.WithString("type", mcp.Enum("text", "int", "float"), mcp.Description("How to interpret value (default text)")),
	)
	s.AddTool(toolStore, tools.StoreHandler(facade))

	toolGet := mcp.NewTool("kv-get",
		mcp.WithDescription("Returns the value stored under a key; None when the key is absent"),
		mcp.WithString("key", mcp.Required(), mcp.Description("The key returned by kv-store")),
		mcp.WithString("as", mcp.Enum("raw", "int", "text"), mcp.Description("Conversion applied to the stored bytes (default raw)")),
	)
	s.AddTool(toolGet, tools.GetHandler(facade))

	toolReplay := mcp.NewTool("kv-replay",
		mcp.WithDescription(multiline(
			"Shows the recorded call history of an operation",
			"- First line: how many times the operation was called",
			"- Then one line per call: operation(*arguments) -> result",
		)),
		mcp.WithString("operation", mcp.Description("Qualified operation name (default Cache.store)")),
	)
	s.AddTool(toolReplay, tools.ReplayHandler(backend))

	toolCount := mcp.NewTool("kv-count",
		mcp.WithDescription("Returns the call counter of an operation"),
		mcp.WithString("operation", mcp.Description("Qualified operation name (default Cache.store)")),
	)
	s.AddTool(toolCount, tools.CountHandler(backend))

	toolPage := mcp.NewTool("get-page",
		mcp.WithDescription(multiline(
			"Fetches the body of a URL",
			"- Responses are cached in memory per URL for a short time",
			"- Set markdown to convert HTML pages to Markdown",
		)),
		mcp.WithString("url", mcp.Required(), mcp.Description("The URL to fetch")),
		mcp.WithBoolean("markdown", mcp.Description("Convert HTML to Markdown")),
	)
	s.AddTool(toolPage, tools.GetPageHandler(fetcher))
	logger.Infof("Registered tools")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

// openBackend opens the configured backend. For the socket kind it starts
// the kv daemon when none is listening yet.
func openBackend(ctx context.Context, cfg config.Config) (kv.Backend, error) {
	if cfg.Backend != kv.KindSocket {
		return kv.Open(ctx, cfg.KVOptions())
	}
	logger.Infof("Attempting to connect to kv daemon at %s", cfg.SocketPath)
	client, err := kv.Dial(cfg.SocketPath)
	if err == nil {
		return client, nil
	}
	logger.Warnf("Failed to connect to kv daemon: %v, attempting to start daemon", err)
	if startErr := startDaemon(); startErr != nil {
		logger.Errorf("Failed to start kv daemon: %v", startErr)
	}
	// wait for socket to appear
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if client, err = kv.Dial(cfg.SocketPath); err == nil {
			return client, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil, err
}

func startDaemon() error {
	start := func(path string) error {
		cmd := exec.Command(path)
		cmd.Env = os.Environ()
		return cmd.Start()
	}
	// Next to this executable, then PATH, then the working directory.
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), "kvd")
		if _, statErr := os.Stat(sibling); statErr == nil {
			return start(sibling)
		}
	}
	if path, err := exec.LookPath("kvd"); err == nil {
		return start(path)
	}
	if _, err := os.Stat("./kvd"); err == nil {
		return start("./kvd")
	}
	return exec.ErrNotFound
}
