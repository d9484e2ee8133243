// Package serviceutil holds process level helpers shared by the commands.
package serviceutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// SignalContext returns a context cancelled on the first SIGINT or SIGTERM.
// After stop is called (or the first signal arrives) a second signal kills
// the process the default way.
func SignalContext() (ctx context.Context, stop context.CancelFunc) {
	ctx, stop = signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// Fatal logs err and exits with status 1. Deferred calls do not run.
func Fatal(message string, err error) {
	if err == nil {
		slog.Error(message)
	} else {
		slog.Error(message, "err", err)
	}
	os.Exit(1)
}
