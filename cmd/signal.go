package cmd

import (
	"context"
	"os"
	"os/signal"
)

// setupShutdownHandler returns a context that is canceled when one of
// stopSignals arrives.
func setupShutdownHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, stopSignals...)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
		}
		signal.Stop(sigChan) // Unregister handler to prevent leak
		cancel()
	}()

	return ctx, cancel
}
