// Package state contains per-screen presentation state holders. Every holder
// exposes an immutable snapshot that is replaced wholesale after each
// repository emission; subscribers receive each replacement in order.
package state

import (
	"context"
	"sync"
)

// holder is the shared snapshot/subscription machinery embedded by each
// screen's state holder. Snapshots are value types: readers always see a
// complete, consistent copy.
type holder[S any] struct {
	mu   sync.RWMutex
	snap S

	subMu sync.Mutex
	subs  []chan S

	ctx    context.Context
	cancel context.CancelFunc
}

func newHolder[S any](initial S) *holder[S] {
	ctx, cancel := context.WithCancel(context.Background())
	return &holder[S]{snap: initial, ctx: ctx, cancel: cancel}
}

// Snapshot returns the current UI state.
func (h *holder[S]) Snapshot() S {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Subscribe returns a channel receiving every subsequent snapshot
// replacement. A slow subscriber misses intermediate snapshots rather than
// blocking producers.
func (h *holder[S]) Subscribe() <-chan S {
	ch := make(chan S, 8)
	h.subMu.Lock()
	h.subs = append(h.subs, ch)
	h.subMu.Unlock()
	return ch
}

// Close cancels the holder's context; in-flight repository calls are torn
// down cooperatively. A write cancelled here may still complete server-side;
// no compensation is attempted.
func (h *holder[S]) Close() {
	h.cancel()
	h.subMu.Lock()
	for _, ch := range h.subs {
		close(ch)
	}
	h.subs = nil
	h.subMu.Unlock()
}

// replace swaps in a new snapshot and fans it out.
func (h *holder[S]) replace(snap S) {
	h.mu.Lock()
	h.snap = snap
	h.mu.Unlock()

	h.subMu.Lock()
	for _, ch := range h.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	h.subMu.Unlock()
}

// update derives the next snapshot from the current one under the lock, then
// fans it out.
func (h *holder[S]) update(fn func(S) S) {
	h.mu.Lock()
	h.snap = fn(h.snap)
	snap := h.snap
	h.mu.Unlock()

	h.subMu.Lock()
	for _, ch := range h.subs {
		select {
		case ch <- snap:
		default:
		}
	}
	h.subMu.Unlock()
}
