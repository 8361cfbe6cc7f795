package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals stop the service gracefully.
var Signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// NotifyContext returns a context cancelled on the first interrupt or
// termination signal.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, Signals...)
}
