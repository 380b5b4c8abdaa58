/*
Package rawlist implements an intrusive circular doubly linked list.

The list stores no nodes of its own: the link metadata lives in a Links value
embedded in each entry. An entry can be on at most one list at a time. This is
enforced by an atomic flag in Links, so that two callers racing to insert the
same entry cannot both succeed.

Every linked entry also records which list it is on, so a list refuses to
remove or insert next to an entry that belongs to another list.

The flag and the owner tag are the only synchronisation. Every other operation, including
traversal with cursors, requires the caller to serialise access to the list,
usually with a mutex owned by whoever owns the list.
*/
package rawlist

// List is an intrusive circular doubly linked list.
// The zero value is a ready to use empty list.
type List[T any, E Entry[T]] struct {
	head E
	id   *listID
}

// ident returns the identity stamped on entries linked on l.
func (l *List[T, E]) ident() *listID {
	if l.id == nil {
		l.id = new(listID)
	}
	return l.id
}

// Contains reports whether e is linked on l.
func (l *List[T, E]) Contains(e E) bool {
	return e.Links().ownedBy(l.id)
}

// IsEmpty reports whether the list has no entries.
func (l *List[T, E]) IsEmpty() bool {
	return l.head == nil
}

// Front returns the first entry of the list or nil.
func (l *List[T, E]) Front() E {
	return l.head
}

// Back returns the last entry of the list or nil.
func (l *List[T, E]) Back() E {
	if l.head == nil {
		return nil
	}
	return E(l.head.Links().prev)
}

// Len returns the number of entries in the list.
//
// NOTE: This is an O(n) operation.
func (l *List[T, E]) Len() (n int) {
	l.Do(func(E) bool {
		n++
		return true
	})
	return n
}

// InsertAfter inserts e after existing. It returns false and leaves the list
// unchanged if e is already on a list or existing is not on l.
func (l *List[T, E]) InsertAfter(existing, e E) bool {
	if !l.Contains(existing) {
		return false
	}

	links := e.Links()
	if !links.acquireForInsertion(l.id) {
		return false
	}

	link[T, E](existing, e)

	return true
}

// PushBack inserts e at the back of the list. It returns false and leaves the
// list unchanged if e is already on a list.
func (l *List[T, E]) PushBack(e E) bool {
	if back := l.Back(); back != nil {
		return l.InsertAfter(back, e)
	}

	links := e.Links()
	if !links.acquireForInsertion(l.ident()) {
		return false
	}

	l.head = e
	links.next = (*T)(e)
	links.prev = (*T)(e)

	return true
}

// PushFront inserts e at the front of the list. It returns false and leaves the
// list unchanged if e is already on a list.
func (l *List[T, E]) PushFront(e E) bool {
	if !l.PushBack(e) {
		return false
	}

	// The back of a ring is right before the head.
	l.head = e

	return true
}

// Remove removes e from the list. It returns false and leaves both lists
// unchanged if e is not on l.
func (l *List[T, E]) Remove(e E) bool {
	if !l.Contains(e) {
		return false
	}

	links := e.Links()

	next := E(links.next)
	if next == e {
		// Remove the only entry.
		l.head = nil
	} else {
		if e == l.head {
			l.head = next
		}

		E(links.prev).Links().next = links.next
		next.Links().prev = links.prev
	}

	links.reset()
	links.releaseAfterRemoval()

	return true
}

// PopFront removes and returns the first entry of the list or nil.
func (l *List[T, E]) PopFront() E {
	head := l.head
	if head == nil {
		return nil
	}

	l.Remove(head)

	return head
}

// Do calls function f on each entry of the list, in forward order.
// If f returns false, Do stops the iteration.
// f must not change l.
func (l *List[T, E]) Do(f func(e E) bool) {
	if l.head == nil {
		return
	}

	if !f(l.head) {
		return
	}

	for p := E(l.head.Links().next); p != l.head; p = E(p.Links().next) {
		if !f(p) {
			return
		}
	}
}

// CursorFront returns a cursor positioned on the first entry.
func (l *List[T, E]) CursorFront() *Cursor[T, E] {
	return &Cursor[T, E]{list: l, cur: l.head}
}

// CursorFrontMut returns a cursor positioned on the first entry that can
// remove entries while traversing.
func (l *List[T, E]) CursorFrontMut() *CursorMut[T, E] {
	return &CursorMut[T, E]{Cursor: Cursor[T, E]{list: l, cur: l.head}}
}

// link inserts e after existing.
func link[T any, E Entry[T]](existing, e E) {
	el := existing.Links()
	links := e.Links()

	next := E(el.next)
	links.next = el.next
	links.prev = (*T)(existing)
	el.next = (*T)(e)
	next.Links().prev = (*T)(e)
}
