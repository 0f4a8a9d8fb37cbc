package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucrnz/timeparse/internal/cleanup"
	"github.com/lucrnz/timeparse/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Temporary output files are removed on every exit path.
	tracker := cleanup.NewTracker()

	if err := cli.ExecuteContext(ctx, tracker); err != nil {
		tracker.Cleanup()
		if ctx.Err() == context.Canceled {
			fmt.Fprintln(os.Stderr, "\nInterrupted")
			os.Exit(130) // Standard exit code for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	tracker.Cleanup()
}
