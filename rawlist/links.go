package rawlist

import "sync/atomic"

// Links is the list metadata embedded in every entry.
//
// The zero value is a detached entry. Links must not be copied after first use.
type Links[T any] struct {
	next, prev *T
	inserted   atomic.Bool
	owner      atomic.Pointer[listID]
}

// listID identifies the list an entry is linked on.
type listID struct{ _ byte }

// Linked reports whether the entry is currently accepted into a list.
// It is safe to call without holding the list's lock.
func (l *Links[T]) Linked() bool {
	return l.inserted.Load()
}

// acquireForInsertion marks the entry as inserted into the list identified by
// id. It returns false if the entry is already on a list, in which case the
// insertion must be a no-op.
func (l *Links[T]) acquireForInsertion(id *listID) bool {
	if !l.inserted.CompareAndSwap(false, true) {
		return false
	}
	l.owner.Store(id)
	return true
}

// releaseAfterRemoval marks the entry as detached. next and prev must already be nil.
func (l *Links[T]) releaseAfterRemoval() {
	l.owner.Store(nil)
	l.inserted.Store(false)
}

// ownedBy reports whether the entry is linked on the list identified by id.
func (l *Links[T]) ownedBy(id *listID) bool {
	return id != nil && l.owner.Load() == id
}

func (l *Links[T]) reset() {
	l.next = nil
	l.prev = nil
}

// Entry is the constraint for a list entry.
type Entry[T any] interface {
	*T
	Links() *Links[T]
}
