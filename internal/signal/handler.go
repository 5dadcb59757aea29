// Package signal turns SIGINT and SIGTERM into a graceful stop request.
//
// The first signal only closes the Interrupted channel: work already in
// flight keeps its context and finishes, so a monitoring cycle always
// releases its browser. A second signal cancels Context for a hard stop.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler listens for interrupt signals.
type Handler struct {
	ctx         context.Context //nolint:containedctx // handler owns the hard-stop context
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{} // signals listen() to exit cleanly
	mu          sync.Mutex
	received    int
	stopOnce    sync.Once
	sigChan     chan os.Signal
}

// NewHandler creates a signal handler that listens for SIGINT and SIGTERM.
//
// Usage:
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//
//	select {
//	case <-h.Interrupted():
//	    // stop at the next safe point
//	default:
//	}
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		// Buffer of 1 ensures signal.Notify doesn't drop signals if handler is busy.
		sigChan: make(chan os.Signal, 1),
	}

	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context is canceled on a second signal, on Stop, or when the parent ends.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted returns a channel that closes on the first signal.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Stop stops listening for signals and cancels Context.
// Always call this when done to prevent resource leaks.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

// handleSignal processes a received signal.
func (h *Handler) handleSignal() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received++
	switch h.received {
	case 1:
		close(h.interrupted)
	case 2:
		h.cancel()
	}
}

// listen waits for signals until Stop is called or the context ends.
func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigChan:
			h.handleSignal()
		}
	}
}
