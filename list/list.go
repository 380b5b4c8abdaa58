/*
Package list implements an owning intrusive list on top of rawlist.

Pushing a handle moves ownership of the entry into the list, popping or
removing it moves ownership back out. The list holds no handles of its own:
an entry being linked is the ownership.

Like rawlist, the list must be protected by the caller against concurrent
mutation. Only duplicate insertion of the same entry is guarded internally.
*/
package list

import "github.com/mgnsk/workq/rawlist"

// List is an intrusive list that owns its entries through handles of type W.
// The zero value is a ready to use empty list.
//
// Call Release to drop all entries still on the list.
type List[T any, E rawlist.Entry[T], W Wrapper[T, W]] struct {
	list rawlist.List[T, E]
}

// IsEmpty reports whether the list has no entries.
func (l *List[T, E, W]) IsEmpty() bool {
	return l.list.IsEmpty()
}

// Len returns the number of entries in the list.
//
// NOTE: This is an O(n) operation.
func (l *List[T, E, W]) Len() int {
	return l.list.Len()
}

// Front returns the first entry of the list or nil. Ownership stays with the list.
func (l *List[T, E, W]) Front() E {
	return l.list.Front()
}

// Back returns the last entry of the list or nil. Ownership stays with the list.
func (l *List[T, E, W]) Back() E {
	return l.list.Back()
}

// Contains reports whether e is linked on l.
func (l *List[T, E, W]) Contains(e E) bool {
	return l.list.Contains(e)
}

// PushBack moves data to the back of the list.
//
// If the entry is already on this or another list, which can happen for
// shared entries, the handle is released instead and PushBack returns false.
// For Arc that means dropping a reference.
func (l *List[T, E, W]) PushBack(data W) bool {
	rejected, ok := l.TryPushBack(data)
	return release[T, W](rejected, ok)
}

// PushFront moves data to the front of the list. It behaves like PushBack
// when the entry is already on a list.
func (l *List[T, E, W]) PushFront(data W) bool {
	rejected, ok := l.TryPushFront(data)
	return release[T, W](rejected, ok)
}

// InsertAfter moves data into the list after existing. It behaves like
// PushBack when the entry is already on a list or existing is not on l.
func (l *List[T, E, W]) InsertAfter(existing E, data W) bool {
	rejected, ok := l.TryInsertAfter(existing, data)
	return release[T, W](rejected, ok)
}

// TryPushBack is like PushBack but hands a rejected handle back to the
// caller instead of releasing it.
func (l *List[T, E, W]) TryPushBack(data W) (rejected W, ok bool) {
	ptr := data.IntoRaw()
	return reject[T, W](ptr, l.list.PushBack(E(ptr)))
}

// TryPushFront is like PushFront but hands a rejected handle back to the
// caller instead of releasing it.
func (l *List[T, E, W]) TryPushFront(data W) (rejected W, ok bool) {
	ptr := data.IntoRaw()
	return reject[T, W](ptr, l.list.PushFront(E(ptr)))
}

// TryInsertAfter is like InsertAfter but hands a rejected handle back to the
// caller instead of releasing it.
func (l *List[T, E, W]) TryInsertAfter(existing E, data W) (rejected W, ok bool) {
	ptr := data.IntoRaw()
	return reject[T, W](ptr, l.list.InsertAfter(existing, E(ptr)))
}

func reject[T any, W Wrapper[T, W]](ptr *T, ok bool) (W, bool) {
	if ok {
		var zero W
		return zero, true
	}
	return fromRaw[T, W](ptr), false
}

func release[T any, W Wrapper[T, W]](rejected W, ok bool) bool {
	if !ok {
		rejected.Release()
	}
	return ok
}

// Remove removes the entry of data from the list and returns the owning handle
// the list held. It returns false if the entry is not on l.
func (l *List[T, E, W]) Remove(data W) (W, bool) {
	ptr := data.AsRef()
	if !l.list.Remove(E(ptr)) {
		var zero W
		return zero, false
	}
	return fromRaw[T, W](ptr), true
}

// PopFront removes the first entry of the list and returns its owning handle.
func (l *List[T, E, W]) PopFront() (W, bool) {
	front := l.list.PopFront()
	if front == nil {
		var zero W
		return zero, false
	}
	return fromRaw[T, W]((*T)(front)), true
}

// Release pops and releases every entry on the list.
func (l *List[T, E, W]) Release() {
	for {
		data, ok := l.PopFront()
		if !ok {
			return
		}
		data.Release()
	}
}

// CursorFront returns a read cursor positioned on the first entry.
func (l *List[T, E, W]) CursorFront() *rawlist.Cursor[T, E] {
	return l.list.CursorFront()
}

// CursorFrontMut returns a cursor positioned on the first entry that can
// remove entries while traversing.
func (l *List[T, E, W]) CursorFrontMut() *CursorMut[T, E, W] {
	return &CursorMut[T, E, W]{cursor: l.list.CursorFrontMut()}
}
