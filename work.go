package workq

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/mgnsk/workq/list"
	"github.com/mgnsk/workq/rawlist"
	"github.com/pkg/errors"
)

// Work is a unit of deferred work delivered to a recipient.
type Work interface {
	// DoWork performs the work. It reports whether the remaining items in the
	// queue should be delivered immediately or the delivery loop should return
	// to its caller first.
	DoWork(ctx context.Context, w io.Writer) (more bool, err error)

	// Cancel is called instead of DoWork when the work won't be delivered.
	Cancel()
}

// WorkFunc adapts a function to the Work interface. Cancel does nothing.
type WorkFunc func(ctx context.Context, w io.Writer) (bool, error)

// DoWork calls f.
func (f WorkFunc) DoWork(ctx context.Context, w io.Writer) (bool, error) {
	return f(ctx, w)
}

// Cancel implements Work.
func (WorkFunc) Cancel() {}

// DeliverCode is work that writes a code to the recipient.
type DeliverCode struct {
	Code uint32
}

// DoWork writes the code as 4 little endian bytes.
func (d DeliverCode) DoWork(_ context.Context, w io.Writer) (bool, error) {
	if err := binary.Write(w, binary.LittleEndian, d.Code); err != nil {
		return false, errors.Wrapf(err, "writing code %d", d.Code)
	}
	return true, nil
}

// Cancel implements Work.
func (DeliverCode) Cancel() {}

// Item is a queued work item. An item is on at most one queue at a time.
type Item struct {
	links rawlist.Links[Item]
	refs  list.RefCount
	work  Work
}

// Handle is a shared reference to an item.
type Handle = list.Arc[Item, *Item]

// NewItem allocates an item for w and returns the first handle to it.
//
// If w implements list.Dropper, its Drop method is called when the last handle
// to the item is released.
func NewItem(w Work) Handle {
	return list.NewArc(&Item{work: w})
}

// Work returns the item's work.
func (it *Item) Work() Work {
	return it.work
}

// Queued reports whether the item is currently on a queue.
func (it *Item) Queued() bool {
	return it.links.Linked()
}

// Links implements rawlist.Entry.
func (it *Item) Links() *rawlist.Links[Item] {
	return &it.links
}

// Refs implements list.Shared.
func (it *Item) Refs() *list.RefCount {
	return &it.refs
}

// Drop implements list.Dropper.
func (it *Item) Drop() {
	if d, ok := it.work.(list.Dropper); ok {
		d.Drop()
	}
}
