/*
Package backend implements a mutex guarded owning list.

The list packages leave structural locking to the caller. Backend is that
caller: every structural operation runs under one mutex. Handles that leave
the backend, including handles of rejected pushes, are released by the
backend only after the mutex is unlocked.
*/
package backend

import (
	"sync"

	"github.com/mgnsk/workq/list"
	"github.com/mgnsk/workq/rawlist"
	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned when pushing to a closed backend.
	ErrClosed = errors.New("closed")
	// ErrLinked is returned when pushing an entry that is already on a list.
	ErrLinked = errors.New("already linked")
	// ErrNotFound is returned when inserting after an entry that is not on the backend.
	ErrNotFound = errors.New("not found")
)

// Backend is an owning list guarded by a mutex.
type Backend[T any, E rawlist.Entry[T], W list.Wrapper[T, W]] struct {
	list   list.List[T, E, W]
	len    int
	closed bool
	mu     sync.Mutex
}

// NewBackend creates an empty backend.
func NewBackend[T any, E rawlist.Entry[T], W list.Wrapper[T, W]]() *Backend[T, E, W] {
	return &Backend[T, E, W]{}
}

// Len returns the number of queued entries.
func (b *Backend[T, E, W]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.len
}

// Closed reports whether the backend was drained for the last time.
func (b *Backend[T, E, W]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closed
}

// PushBack moves w to the back of the list.
//
// The handle is released if the backend is closed (ErrClosed) or the entry
// is already on a list (ErrLinked).
func (b *Backend[T, E, W]) PushBack(w W) error {
	return b.push(w, func() (W, error) {
		return linked[W](b.list.TryPushBack(w))
	})
}

// PushFront moves w to the front of the list. Errors are as for PushBack.
func (b *Backend[T, E, W]) PushFront(w W) error {
	return b.push(w, func() (W, error) {
		return linked[W](b.list.TryPushFront(w))
	})
}

// InsertAfter moves w into the list after existing. Errors are as for
// PushBack, and ErrNotFound is returned if existing is not on this backend,
// for example because it was popped concurrently.
func (b *Backend[T, E, W]) InsertAfter(existing E, w W) error {
	return b.push(w, func() (W, error) {
		if !b.list.Contains(existing) {
			return w, ErrNotFound
		}
		return linked[W](b.list.TryInsertAfter(existing, w))
	})
}

func linked[W any](rejected W, ok bool) (W, error) {
	if !ok {
		return rejected, ErrLinked
	}
	return rejected, nil
}

func (b *Backend[T, E, W]) push(w W, f func() (W, error)) error {
	rejected, err := b.pushLocked(w, f)
	if err != nil {
		rejected.Release()
	}
	return err
}

func (b *Backend[T, E, W]) pushLocked(w W, f func() (W, error)) (W, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return w, ErrClosed
	}

	rejected, err := f()
	if err != nil {
		return rejected, err
	}

	b.len++

	return rejected, nil
}

// Remove removes the entry of w and returns the handle the list held.
// It returns false if the entry is not on this backend.
func (b *Backend[T, E, W]) Remove(w W) (W, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed, ok := b.list.Remove(w)
	if ok {
		b.len--
	}

	return removed, ok
}

// PopFront removes the first entry and returns its handle.
func (b *Backend[T, E, W]) PopFront() (W, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.list.PopFront()
	if ok {
		b.len--
	}

	return w, ok
}

// RemoveFunc removes every entry for which pred returns true and returns
// their handles in list order.
//
// pred runs under the lock and must not call back into the backend.
func (b *Backend[T, E, W]) RemoveFunc(pred func(e E) bool) []W {
	b.mu.Lock()
	defer b.mu.Unlock()

	var removed []W

	c := b.list.CursorFrontMut()
	for e := c.Current(); e != nil; e = c.Current() {
		if !pred(e) {
			c.MoveNext()
			continue
		}

		if w, ok := c.RemoveCurrent(); ok {
			removed = append(removed, w)
			b.len--
		}
	}

	return removed
}

// Range calls f for each entry in list order. If f returns false, Range stops
// the iteration.
//
// f runs under the lock and must not call back into the backend.
func (b *Backend[T, E, W]) Range(f func(e E) bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c := b.list.CursorFront()
	for e := c.Current(); e != nil; e = c.Current() {
		if !f(e) {
			return
		}
		c.MoveNext()
	}
}

// Drain closes the backend and returns the handles of every remaining entry.
// Subsequent pushes fail with ErrClosed.
func (b *Backend[T, E, W]) Drain() []W {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true

	drained := make([]W, 0, b.len)
	for {
		w, ok := b.list.PopFront()
		if !ok {
			break
		}
		drained = append(drained, w)
	}

	b.len = 0

	return drained
}
