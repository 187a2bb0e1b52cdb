// Package main provides the entry point for the cityguide CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tutar/city-guide-sub000/cmd/cityguide/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
