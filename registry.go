package workq

import (
	"context"
	"encoding/binary"
	"hash/maphash"
	"io"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Registry holds the queues of a set of recipients, keyed by recipient id.
// It is safe for concurrent use.
type Registry struct {
	queues *xsync.MapOf[uint32, *Queue]
	logger *zap.Logger
	opts   []Option
	closed atomic.Bool
}

// NewRegistry creates an empty registry. The options apply to every queue
// the registry creates, each queue is named after its recipient id.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		queues: xsync.NewTypedMapOf[uint32, *Queue](hashID),
		logger: newQueueOptions(opts).logger,
		opts:   opts,
	}
}

func hashID(seed maphash.Seed, id uint32) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)

	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], id)
	h.Write(b[:])

	return h.Sum64()
}

// Len returns the number of recipients.
func (r *Registry) Len() int {
	return r.queues.Size()
}

// Queue returns the queue of recipient id, creating it if needed.
//
// The returned queue is not pinned: a concurrent Remove(id) or Close may close
// it right after Queue returns, in which case pushes to it fail with ErrClosed.
// A later call to Queue creates a fresh queue for id.
func (r *Registry) Queue(id uint32) (*Queue, error) {
	if r.closed.Load() {
		return nil, ErrClosed
	}

	q, loaded := r.queues.LoadOrCompute(id, func() *Queue {
		opts := append(slices.Clone(r.opts), WithName(strconv.FormatUint(uint64(id), 10)))
		return NewQueue(opts...)
	})

	if !loaded {
		r.logger.Debug("created queue", zap.Uint32("recipient", id))

		// Lost a race with Close.
		if r.closed.Load() {
			r.queues.Delete(id)
			q.Close()
			return nil, ErrClosed
		}
	}

	return q, nil
}

// Remove removes recipient id and closes its queue.
func (r *Registry) Remove(id uint32) error {
	q, ok := r.queues.LoadAndDelete(id)
	if !ok {
		return errors.Wrapf(ErrNotFound, "recipient %d", id)
	}

	r.logger.Debug("removed queue", zap.Uint32("recipient", id), zap.Int("queued", q.Len()))

	return q.Close()
}

// Broadcast offers the item of h to the recipients in order and returns the
// number of queues that accepted it. Since an item is on at most one queue at
// a time, the result is 0 or 1. Broadcast consumes h.
func (r *Registry) Broadcast(h Handle, ids ...uint32) int {
	defer h.Release()

	accepted := 0

	for _, id := range ids {
		q, err := r.Queue(id)
		if err != nil {
			continue
		}

		if err := q.Push(h.Clone()); err == nil {
			accepted++
		}
	}

	return accepted
}

// Deliver delivers every recipient's queue concurrently to the writer
// returned by out for that recipient. It returns the first error.
func (r *Registry) Deliver(ctx context.Context, out func(id uint32) io.Writer) error {
	eg, ctx := errgroup.WithContext(ctx)

	r.queues.Range(func(id uint32, q *Queue) bool {
		w := out(id)
		eg.Go(func() error {
			for !q.IsEmpty() {
				if _, err := q.Deliver(ctx, w); err != nil {
					return errors.Wrapf(err, "recipient %d", id)
				}
			}
			return nil
		})
		return true
	})

	return eg.Wait()
}

// Close closes the registry and every queue in it.
func (r *Registry) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}

	r.queues.Range(func(id uint32, _ *Queue) bool {
		if q, ok := r.queues.LoadAndDelete(id); ok {
			q.Close()
		}
		return true
	})

	return nil
}
