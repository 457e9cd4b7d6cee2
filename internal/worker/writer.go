// Package worker provides the write-behind store writer. The engine commits
// every mutation on the event path; the writer moves the actual persistence
// onto a single background goroutine so a slow store never blocks pointer
// events. One goroutine drains one channel, which keeps writes for any group
// in the order the engine issued them.
package worker

import (
	"log/slog"
	"sync"

	"github.com/eric-ce/mapmeasure/internal/channel"
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/internal/store"
)

// DefaultQueueSize buffers enough ops to ride out a store hiccup during a
// fast drag without blocking the event path.
const DefaultQueueSize = 4096

// Writer wraps a store and applies every write asynchronously. It satisfies
// store.Store; reads flush the queue first so they observe prior writes.
type Writer struct {
	inner store.Store
	ops   channel.Channel[func(store.Store)]
	log   *slog.Logger

	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewWriter builds a write-behind wrapper around inner. size is the op
// buffer; zero uses DefaultQueueSize.
func NewWriter(inner store.Store, size int, log *slog.Logger) *Writer {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Writer{
		inner: inner,
		ops:   channel.New[func(store.Store)](size),
		log:   log,
	}
}

// Init initializes the wrapped store and starts the drain goroutine.
func (w *Writer) Init() error {
	if err := w.inner.Init(); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.drain()
	return nil
}

// Close flushes pending writes, stops the drain goroutine, and closes the
// wrapped store.
func (w *Writer) Close() error {
	w.closeMu.Lock()
	if w.closed {
		w.closeMu.Unlock()
		return nil
	}
	w.closed = true
	w.ops.Close()
	w.closeMu.Unlock()

	w.wg.Wait()
	return w.inner.Close()
}

// UpsertGroup enqueues the write and returns immediately.
func (w *Writer) UpsertGroup(g *model.Group) error {
	w.submit(func(s store.Store) {
		if err := s.UpsertGroup(g); err != nil {
			w.log.Error("Async group upsert failed", "group", g.ID, "error", err)
		}
	})
	return nil
}

// RemoveGroupByID enqueues the removal and returns immediately.
func (w *Writer) RemoveGroupByID(id uint64) error {
	w.submit(func(s store.Store) {
		if err := s.RemoveGroupByID(id); err != nil {
			w.log.Error("Async group removal failed", "group", id, "error", err)
		}
	})
	return nil
}

// Reset enqueues a store reset behind any pending writes.
func (w *Writer) Reset() error {
	w.submit(func(s store.Store) {
		if err := s.Reset(); err != nil {
			w.log.Error("Async store reset failed", "error", err)
		}
	})
	return nil
}

// GetGroupByID flushes pending writes, then reads through.
func (w *Writer) GetGroupByID(id uint64) (*model.Group, bool) {
	w.Flush()
	return w.inner.GetGroupByID(id)
}

// GetAllGroups flushes pending writes, then reads through.
func (w *Writer) GetAllGroups() []*model.Group {
	w.Flush()
	return w.inner.GetAllGroups()
}

// Flush blocks until every op enqueued before the call has been applied.
func (w *Writer) Flush() {
	done := make(chan struct{})
	if !w.submit(func(store.Store) { close(done) }) {
		return
	}
	<-done
}

// QueueDepth reports how many ops are waiting, for the monitor loop.
func (w *Writer) QueueDepth() int {
	return w.ops.Len()
}

func (w *Writer) submit(op func(store.Store)) bool {
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		w.log.Error("Store write after close dropped")
		return false
	}
	w.ops.Send(op)
	return true
}

func (w *Writer) drain() {
	defer w.wg.Done()
	for op := range w.ops.Receive() {
		op(w.inner)
	}
}
