package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignalShutdown returns a copy of ctx that is cancelled when the
// process receives SIGINT or SIGTERM. The main goroutine can block on the
// returned context to wait until killed.
func WithSignalShutdown(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
