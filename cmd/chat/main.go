package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		slog.Error("Usage: chat <server-url>")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// After the first signal a second one kills the process the default way
	go func() {
		<-ctx.Done()
		stop()
	}()

	client := newChatClient(os.Args[1], &http.Client{Timeout: 2 * time.Minute})
	if err := client.run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Failed to read input", "error", err)
		os.Exit(1)
	}
}
