package rawlist

// Cursor is a traversal position over a list. It owns nothing.
//
// A nil position is past the end in both directions: MoveNext from nil moves to
// the front and MovePrev from nil moves to the back.
type Cursor[T any, E Entry[T]] struct {
	list *List[T, E]
	cur  E
}

// Current returns the entry at the cursor position or nil.
func (c *Cursor[T, E]) Current() E {
	return c.cur
}

// MoveNext moves the cursor to the next entry. Moving past the back entry sets
// the position to nil instead of wrapping around.
func (c *Cursor[T, E]) MoveNext() {
	c.cur = next(c.list, c.cur)
}

// MovePrev moves the cursor to the previous entry. Moving past the front entry
// sets the position to nil instead of wrapping around.
func (c *Cursor[T, E]) MovePrev() {
	c.cur = prev(c.list, c.cur)
}

// PeekNext returns the entry after the cursor position without moving the cursor.
func (c *Cursor[T, E]) PeekNext() E {
	return next(c.list, c.cur)
}

// PeekPrev returns the entry before the cursor position without moving the cursor.
func (c *Cursor[T, E]) PeekPrev() E {
	return prev(c.list, c.cur)
}

// CursorMut is a cursor that can remove entries while traversing.
type CursorMut[T any, E Entry[T]] struct {
	Cursor[T, E]
}

// RemoveCurrent removes the entry at the cursor position and advances the
// cursor to the next entry. It returns the removed entry or nil.
func (c *CursorMut[T, E]) RemoveCurrent() E {
	e := c.cur
	if e == nil {
		return nil
	}

	// Advance before unlinking, e's links are reset by Remove.
	c.MoveNext()
	c.list.Remove(e)

	return e
}

func next[T any, E Entry[T]](l *List[T, E], cur E) E {
	if cur == nil {
		return l.head
	}

	if l.head == nil {
		return nil
	}

	if n := E(cur.Links().next); n != l.head {
		return n
	}

	return nil
}

func prev[T any, E Entry[T]](l *List[T, E], cur E) E {
	if l.head == nil {
		return nil
	}

	if cur == nil {
		return E(l.head.Links().prev)
	}

	if cur == l.head {
		return nil
	}

	return E(cur.Links().prev)
}
