package testing

import (
	"slices"

	"github.com/mgnsk/workq/rawlist"
	. "github.com/onsi/gomega"
)

// Traversable is a list of nodes that can be walked with a cursor.
type Traversable interface {
	CursorFront() *rawlist.Cursor[Node, *Node]
}

// Values returns the node values in forward order.
func Values(l Traversable) []int {
	values := []int{}

	c := l.CursorFront()
	for n := c.Current(); n != nil; n = c.Current() {
		values = append(values, n.Value)
		c.MoveNext()
	}

	return values
}

// ReverseValues returns the node values in backward order.
func ReverseValues(l Traversable) []int {
	values := []int{}

	c := l.CursorFront()
	// Step off the front onto the past-the-end position.
	c.MovePrev()
	c.MovePrev()

	for n := c.Current(); n != nil; n = c.Current() {
		values = append(values, n.Value)
		c.MovePrev()
	}

	return values
}

// ExpectValidRing asserts that the list is consistent in both directions and
// that every entry on it is marked as linked.
func ExpectValidRing(g *WithT, l Traversable) {
	forward := Values(l)
	backward := ReverseValues(l)
	slices.Reverse(backward)

	g.Expect(backward).To(Equal(forward))

	c := l.CursorFront()
	for n := c.Current(); n != nil; n = c.Current() {
		g.Expect(n.Links().Linked()).To(BeTrue())
		c.MoveNext()
	}
}

// ExpectValues asserts the exact node values of the list in forward order.
func ExpectValues(g *WithT, l Traversable, values ...int) {
	ExpectValidRing(g, l)
	if values == nil {
		values = []int{}
	}
	g.Expect(Values(l)).To(Equal(values))
}
