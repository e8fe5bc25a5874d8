// Package signal stops the servers gracefully on the first signal and kills them on the second.
package signal

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
)

// NotifyContext returns a context which is cancelled on the first of sig. The second one
// exits the process with code 1.
func NotifyContext(parent context.Context, log *slog.Logger, sig ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, sig...)

	go func() {
		var s os.Signal
		select {
		case s = <-ch:
		case <-ctx.Done():
			return
		}
		log.Info("shutting down, send the signal again to force", slog.String("signal", s.String()))
		cancel()
		s = <-ch
		log.Warn("forced exit", slog.String("signal", s.String()))
		os.Exit(1)
	}()

	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
