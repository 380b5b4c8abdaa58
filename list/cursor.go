package list

import "github.com/mgnsk/workq/rawlist"

// CursorMut traverses an owning list and can remove entries from it.
type CursorMut[T any, E rawlist.Entry[T], W Wrapper[T, W]] struct {
	cursor *rawlist.CursorMut[T, E]
}

// Current returns the entry at the cursor position or nil.
func (c *CursorMut[T, E, W]) Current() E {
	return c.cursor.Current()
}

// RemoveCurrent removes the entry at the cursor position, advances the cursor
// and returns the owning handle of the removed entry.
func (c *CursorMut[T, E, W]) RemoveCurrent() (W, bool) {
	e := c.cursor.RemoveCurrent()
	if e == nil {
		var zero W
		return zero, false
	}
	return fromRaw[T, W]((*T)(e)), true
}

// PeekNext returns the entry after the cursor position.
func (c *CursorMut[T, E, W]) PeekNext() E {
	return c.cursor.PeekNext()
}

// PeekPrev returns the entry before the cursor position.
func (c *CursorMut[T, E, W]) PeekPrev() E {
	return c.cursor.PeekPrev()
}

// MoveNext moves the cursor to the next entry.
func (c *CursorMut[T, E, W]) MoveNext() {
	c.cursor.MoveNext()
}

// MovePrev moves the cursor to the previous entry.
func (c *CursorMut[T, E, W]) MovePrev() {
	c.cursor.MovePrev()
}
