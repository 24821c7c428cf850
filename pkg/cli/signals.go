package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a child of parent that is cancelled on SIGINT or
// SIGTERM. A second signal while graceful shutdown is in progress exits the
// process immediately: a stuck shutdown must not make it unkillable.
//
// The returned CancelFunc releases the signal registration; call it when
// the context is no longer needed.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			signal.Stop(sigChan)
		case <-sigChan:
			cancel()
			<-sigChan
			os.Exit(1)
		}
	}()

	return ctx, cancel
}
