// Package main is the entry point for the botboard CLI/TUI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/botboard-io/botboard/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
