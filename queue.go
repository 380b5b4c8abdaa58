/*
Package workq implements per-recipient work queues.

Work items are shared, reference counted objects linked intrusively into the
queue of the recipient they are delivered to. An item can be on at most one
queue at a time: pushing an item that is already queued, even from a caller
that holds a different queue's lock, is rejected and the pushed reference is
released.
*/
package workq

import (
	"context"
	"io"
	"runtime"

	"github.com/mgnsk/workq/internal/backend"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
)

// Queue is a FIFO queue of work items for a single recipient.
// It is safe for concurrent use.
type Queue struct {
	backend *backend.Backend[Item, *Item, Handle]
	logger  *zap.Logger
	stats   *stats
	name    string
}

type stats struct {
	queued    *xsync.Counter
	rejected  *xsync.Counter
	delivered *xsync.Counter
	cancelled *xsync.Counter
}

// Stats are the cumulative counters of a queue.
type Stats struct {
	Queued    int64
	Rejected  int64
	Delivered int64
	Cancelled int64
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	o := newQueueOptions(opts)

	b := backend.NewBackend[Item, *Item, Handle]()
	s := &stats{
		queued:    xsync.NewCounter(),
		rejected:  xsync.NewCounter(),
		delivered: xsync.NewCounter(),
		cancelled: xsync.NewCounter(),
	}
	logger := o.logger.With(zap.String("queue", o.name))

	q := &Queue{
		backend: b,
		logger:  logger,
		stats:   s,
		name:    o.name,
	}

	runtime.SetFinalizer(q, func(any) {
		cancelAll(b, logger, s)
	})

	return q
}

// Name returns the queue name.
func (q *Queue) Name() string {
	return q.name
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return q.backend.Len()
}

// IsEmpty reports whether the queue has no items.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Stats returns the queue counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Queued:    q.stats.queued.Value(),
		Rejected:  q.stats.rejected.Value(),
		Delivered: q.stats.delivered.Value(),
		Cancelled: q.stats.cancelled.Value(),
	}
}

// Push moves h to the back of the queue.
//
// If the item is already queued, Push releases h and returns ErrDuplicate.
// After Close, Push releases h and returns ErrClosed.
func (q *Queue) Push(h Handle) error {
	return q.push(h, q.backend.PushBack)
}

// PushFront moves h to the front of the queue. Errors are as for Push.
func (q *Queue) PushFront(h Handle) error {
	return q.push(h, q.backend.PushFront)
}

// PushAfter moves h into the queue right after existing. Errors are as for
// Push. If existing is not queued on q, for example because it was delivered
// in the meantime, PushAfter releases h and returns ErrNotQueued.
func (q *Queue) PushAfter(existing *Item, h Handle) error {
	return q.push(h, func(h Handle) error {
		return q.backend.InsertAfter(existing, h)
	})
}

func (q *Queue) push(h Handle, f func(Handle) error) error {
	err := f(h)

	switch {
	case err == nil:
		q.stats.queued.Inc()
		return nil

	case errors.Is(err, backend.ErrLinked):
		q.stats.rejected.Inc()
		q.logger.Debug("rejected item already on a queue")
		return ErrDuplicate

	case errors.Is(err, backend.ErrClosed):
		q.stats.rejected.Inc()
		q.logger.Debug("rejected item on closed queue")
		return ErrClosed

	case errors.Is(err, backend.ErrNotFound):
		q.stats.rejected.Inc()
		q.logger.Debug("rejected item after an item not on the queue")
		return ErrNotQueued

	default:
		return err
	}
}

// Pop removes the first item and returns the queue's handle to it.
// The caller owns the handle and must release it.
func (q *Queue) Pop() (Handle, bool) {
	return q.backend.PopFront()
}

// Cancel removes h's item from the queue, calls its Cancel method and
// releases the queue's reference. It returns false and leaves the item alone
// if it is not queued on q, including when it is queued on another queue.
func (q *Queue) Cancel(h Handle) bool {
	removed, ok := q.backend.Remove(h)
	if !ok {
		return false
	}

	cancelItem(removed, q.stats)

	return true
}

// CancelFunc cancels every queued item for which pred returns true and returns
// the number of cancelled items.
//
// pred runs under the queue lock and must not call methods of q.
func (q *Queue) CancelFunc(pred func(w Work) bool) int {
	removed := q.backend.RemoveFunc(func(it *Item) bool {
		return pred(it.work)
	})

	for _, h := range removed {
		cancelItem(h, q.stats)
	}

	return len(removed)
}

// Range calls f for each queued item in delivery order. If f returns false,
// Range stops the iteration.
//
// f runs under the queue lock and must not call methods of q.
func (q *Queue) Range(f func(w Work) bool) {
	q.backend.Range(func(it *Item) bool {
		return f(it.work)
	})
}

// Deliver pops items and runs them until the queue is empty, an item asks to
// return to the caller, an item fails or ctx is done. It returns the number of
// items delivered.
//
// A failed item is consumed and not queued again.
func (q *Queue) Deliver(ctx context.Context, w io.Writer) (n int, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		h, ok := q.backend.PopFront()
		if !ok {
			return n, nil
		}

		more, err := h.Get().work.DoWork(ctx, w)
		h.Release()

		if err != nil {
			q.logger.Warn("work item failed", zap.Int("delivered", n), zap.Error(err))
			return n, errors.Wrapf(err, "workq: delivering to %s", q.name)
		}

		n++
		q.stats.delivered.Inc()

		if !more {
			return n, nil
		}
	}
}

// Close closes the queue and cancels every queued item.
// Subsequent pushes fail with ErrClosed. Close is idempotent.
func (q *Queue) Close() error {
	runtime.SetFinalizer(q, nil)
	cancelAll(q.backend, q.logger, q.stats)
	return nil
}

func cancelItem(h Handle, s *stats) {
	h.Get().work.Cancel()
	h.Release()
	s.cancelled.Inc()
}

func cancelAll(b *backend.Backend[Item, *Item, Handle], logger *zap.Logger, s *stats) {
	drained := b.Drain()

	for _, h := range drained {
		cancelItem(h, s)
	}

	if len(drained) > 0 {
		logger.Debug("closed queue", zap.Int("cancelled", len(drained)))
	}
}
