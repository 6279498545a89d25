package main

import (
	"fmt"
	"os"

	"github.com/leonardcser/redis-basic/internal/cli"
	"github.com/leonardcser/redis-basic/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := cli.NewRootCommand().Execute(); err != nil {
		logger.Errorf("%v", err)
		logger.Close()
		os.Exit(1)
	}
}
