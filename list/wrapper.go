package list

import "sync/atomic"

// Wrapper is a handle to a list entry that can transfer ownership of the entry
// to a list and back.
//
// Every IntoRaw must be matched by exactly one FromRaw on the returned pointer.
type Wrapper[T any, W any] interface {
	// IntoRaw consumes the handle and returns the entry it represents.
	IntoRaw() *T
	// FromRaw rebuilds a handle from a pointer returned by IntoRaw.
	// It is called on the zero value of W.
	FromRaw(ptr *T) W
	// AsRef returns the entry without consuming the handle.
	AsRef() *T
	// Release drops the handle.
	Release()
}

// Dropper is implemented by entries that need to run cleanup when their last
// owning handle is released.
type Dropper interface {
	Drop()
}

func drop[T any](ptr *T) {
	if d, ok := any(ptr).(Dropper); ok {
		d.Drop()
	}
}

func fromRaw[T any, W Wrapper[T, W]](ptr *T) W {
	var w W
	return w.FromRaw(ptr)
}

// Box is an exclusively owned entry.
type Box[T any] struct {
	ptr *T
}

var _ Wrapper[int, Box[int]] = Box[int]{}

// NewBox creates an exclusive handle to ptr.
func NewBox[T any](ptr *T) Box[T] {
	return Box[T]{ptr: ptr}
}

// Get returns the entry.
func (b Box[T]) Get() *T {
	return b.ptr
}

// IntoRaw implements Wrapper.
func (b Box[T]) IntoRaw() *T {
	return b.ptr
}

// FromRaw implements Wrapper.
func (Box[T]) FromRaw(ptr *T) Box[T] {
	return Box[T]{ptr: ptr}
}

// AsRef implements Wrapper.
func (b Box[T]) AsRef() *T {
	return b.ptr
}

// Release runs the entry's Drop hook.
func (b Box[T]) Release() {
	drop(b.ptr)
}

// RefCount is a reference count embedded in shared entries.
// The zero value has no references.
type RefCount struct {
	n atomic.Int64
}

// Load returns the current number of references.
func (r *RefCount) Load() int64 {
	return r.n.Load()
}

// Shared is the constraint for entries owned through Arc.
type Shared[T any] interface {
	*T
	Refs() *RefCount
}

// Arc is a reference counted handle to a shared entry.
type Arc[T any, P Shared[T]] struct {
	ptr P
}

var _ Wrapper[sharedInt, Arc[sharedInt, *sharedInt]] = Arc[sharedInt, *sharedInt]{}

type sharedInt struct {
	refs RefCount
}

func (s *sharedInt) Refs() *RefCount { return &s.refs }

// NewArc creates the first handle to ptr.
func NewArc[T any, P Shared[T]](ptr P) Arc[T, P] {
	if !ptr.Refs().n.CompareAndSwap(0, 1) {
		panic("list: NewArc on an already shared entry")
	}
	return Arc[T, P]{ptr: ptr}
}

// Get returns the entry.
func (a Arc[T, P]) Get() P {
	return a.ptr
}

// Clone returns a new handle to the same entry.
func (a Arc[T, P]) Clone() Arc[T, P] {
	a.ptr.Refs().n.Add(1)
	return a
}

// Count returns the current number of handles to the entry.
func (a Arc[T, P]) Count() int64 {
	return a.ptr.Refs().Load()
}

// IntoRaw implements Wrapper. The handle's reference is carried by the
// returned pointer.
func (a Arc[T, P]) IntoRaw() *T {
	return (*T)(a.ptr)
}

// FromRaw implements Wrapper. It takes over the reference carried by ptr.
func (Arc[T, P]) FromRaw(ptr *T) Arc[T, P] {
	return Arc[T, P]{ptr: P(ptr)}
}

// AsRef implements Wrapper.
func (a Arc[T, P]) AsRef() *T {
	return (*T)(a.ptr)
}

// Release drops a reference. The entry's Drop hook runs when the last
// reference is released.
func (a Arc[T, P]) Release() {
	switch n := a.ptr.Refs().n.Add(-1); {
	case n == 0:
		drop((*T)(a.ptr))
	case n < 0:
		panic("list: Arc released too many times")
	}
}

// Ref is a borrowed entry. Releasing it does nothing.
type Ref[T any] struct {
	ptr *T
}

var _ Wrapper[int, Ref[int]] = Ref[int]{}

// NewRef creates a borrowed handle to ptr.
func NewRef[T any](ptr *T) Ref[T] {
	return Ref[T]{ptr: ptr}
}

// Get returns the entry.
func (r Ref[T]) Get() *T {
	return r.ptr
}

// IntoRaw implements Wrapper.
func (r Ref[T]) IntoRaw() *T {
	return r.ptr
}

// FromRaw implements Wrapper.
func (Ref[T]) FromRaw(ptr *T) Ref[T] {
	return Ref[T]{ptr: ptr}
}

// AsRef implements Wrapper.
func (r Ref[T]) AsRef() *T {
	return r.ptr
}

// Release implements Wrapper.
func (Ref[T]) Release() {}
