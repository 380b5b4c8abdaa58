package workq_test

import (
	"bytes"
	"context"

	"github.com/mgnsk/workq"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("pushing items", func() {
	var (
		q *workq.Queue
		c *counters
	)

	BeforeEach(func() {
		q = workq.NewQueue()
		c = &counters{}
	})

	AfterEach(func() {
		Expect(q.Close()).To(Succeed())
		Expect(q.Len()).To(BeZero())
	})

	Specify("items are delivered in FIFO order", func() {
		for i := 0; i < 3; i++ {
			Expect(q.Push(newItem(c, i))).To(Succeed())
		}
		Expect(q.Len()).To(Equal(3))

		var buf bytes.Buffer
		n, err := q.Deliver(context.Background(), &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		Expect(buf.String()).To(Equal("0,1,2,"))

		Expect(q.IsEmpty()).To(BeTrue())
		Expect(c.done.Load()).To(BeEquivalentTo(3))
		Expect(c.dropped.Load()).To(BeEquivalentTo(3))
		Expect(q.Stats()).To(Equal(workq.Stats{Queued: 3, Delivered: 3}))
	})

	Specify("items can be pushed to the front and after a queued item", func() {
		first := newItem(c, 1)
		Expect(q.Push(first.Clone())).To(Succeed())
		Expect(q.Push(newItem(c, 3))).To(Succeed())
		Expect(q.PushFront(newItem(c, 0))).To(Succeed())
		Expect(q.PushAfter(first.Get(), newItem(c, 2))).To(Succeed())
		first.Release()

		var buf bytes.Buffer
		_, err := q.Deliver(context.Background(), &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(Equal("0,1,2,3,"))
	})

	When("the item is already queued", func() {
		Specify("pushing it again is rejected", func() {
			h := newItem(c, 0)

			Expect(q.Push(h.Clone())).To(Succeed())
			Expect(q.Push(h.Clone())).To(MatchError(workq.ErrDuplicate))
			Expect(q.PushFront(h.Clone())).To(MatchError(workq.ErrDuplicate))

			Expect(q.Len()).To(Equal(1))
			Expect(h.Count()).To(BeEquivalentTo(2))
			Expect(h.Get().Queued()).To(BeTrue())
			Expect(q.Stats().Rejected).To(BeEquivalentTo(2))

			h.Release()
		})

		Specify("pushing it to another queue is rejected", func() {
			other := workq.NewQueue()
			defer other.Close()

			h := newItem(c, 0)

			Expect(q.Push(h.Clone())).To(Succeed())
			Expect(other.Push(h.Clone())).To(MatchError(workq.ErrDuplicate))
			Expect(other.Len()).To(BeZero())

			popped, ok := q.Pop()
			Expect(ok).To(BeTrue())
			Expect(h.Get().Queued()).To(BeFalse())

			Expect(other.Push(popped)).To(Succeed())
			Expect(other.Len()).To(Equal(1))

			h.Release()
		})
	})

	When("the item to push after is no longer queued", func() {
		Specify("pushing after a popped item is rejected", func() {
			first := newItem(c, 0)
			Expect(q.Push(first.Clone())).To(Succeed())

			popped, ok := q.Pop()
			Expect(ok).To(BeTrue())
			popped.Release()

			h := newItem(c, 1)
			Expect(q.PushAfter(first.Get(), h.Clone())).To(MatchError(workq.ErrNotQueued))
			Expect(q.Len()).To(BeZero())
			Expect(h.Get().Queued()).To(BeFalse())
			Expect(h.Count()).To(BeEquivalentTo(1))
			Expect(q.Stats().Rejected).To(BeEquivalentTo(1))

			Expect(q.Push(h)).To(Succeed())
			Expect(q.Len()).To(Equal(1))

			first.Release()
		})

		Specify("pushing after an item on another queue is rejected", func() {
			other := workq.NewQueue()
			defer other.Close()

			first := newItem(c, 0)
			Expect(other.Push(first.Clone())).To(Succeed())

			Expect(q.PushAfter(first.Get(), newItem(c, 1))).To(MatchError(workq.ErrNotQueued))
			Expect(q.Len()).To(BeZero())
			Expect(other.Len()).To(Equal(1))
			Expect(c.dropped.Load()).To(BeEquivalentTo(1))

			first.Release()
		})
	})

	When("the queue is closed", func() {
		Specify("queued items are cancelled and pushes are rejected", func() {
			for i := 0; i < 3; i++ {
				Expect(q.Push(newItem(c, i))).To(Succeed())
			}

			Expect(q.Close()).To(Succeed())
			Expect(c.cancelled.Load()).To(BeEquivalentTo(3))
			Expect(c.dropped.Load()).To(BeEquivalentTo(3))

			Expect(q.Push(newItem(c, 3))).To(MatchError(workq.ErrClosed))
			Expect(c.dropped.Load()).To(BeEquivalentTo(4))
			Expect(c.done.Load()).To(BeZero())
		})
	})
})

var _ = Describe("delivering items", func() {
	var (
		q *workq.Queue
		c *counters
	)

	BeforeEach(func() {
		q = workq.NewQueue(workq.WithName("test"))
		c = &counters{}
	})

	AfterEach(func() {
		Expect(q.Close()).To(Succeed())
	})

	When("an item asks to return to the caller", func() {
		Specify("delivery stops after it", func() {
			Expect(q.Push(workq.NewItem(&testWork{counters: c, id: 0, stop: true}))).To(Succeed())
			Expect(q.Push(newItem(c, 1))).To(Succeed())

			var buf bytes.Buffer
			n, err := q.Deliver(context.Background(), &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(buf.String()).To(Equal("0,"))
			Expect(q.Len()).To(Equal(1))

			n, err = q.Deliver(context.Background(), &buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(buf.String()).To(Equal("0,1,"))
		})
	})

	When("an item fails", func() {
		Specify("the error is returned and the item is consumed", func() {
			errBoom := errors.New("boom")

			Expect(q.Push(newItem(c, 0))).To(Succeed())
			Expect(q.Push(workq.NewItem(&testWork{counters: c, id: 1, err: errBoom}))).To(Succeed())
			Expect(q.Push(newItem(c, 2))).To(Succeed())

			var buf bytes.Buffer
			n, err := q.Deliver(context.Background(), &buf)
			Expect(n).To(Equal(1))
			Expect(errors.Is(err, errBoom)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("test"))
			Expect(q.Len()).To(Equal(1))
			Expect(c.dropped.Load()).To(BeEquivalentTo(2))
		})
	})

	When("the context is done", func() {
		Specify("nothing is delivered", func() {
			Expect(q.Push(newItem(c, 0))).To(Succeed())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var buf bytes.Buffer
			n, err := q.Deliver(ctx, &buf)
			Expect(err).To(MatchError(context.Canceled))
			Expect(n).To(BeZero())
			Expect(q.Len()).To(Equal(1))
		})
	})

	Specify("the built in code work writes little endian codes", func() {
		Expect(q.Push(workq.NewItem(workq.DeliverCode{Code: 0x01020304}))).To(Succeed())

		var buf bytes.Buffer
		_, err := q.Deliver(context.Background(), &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.Bytes()).To(Equal([]byte{0x04, 0x03, 0x02, 0x01}))
	})
})

var _ = Describe("cancelling items", func() {
	var (
		q *workq.Queue
		c *counters
	)

	BeforeEach(func() {
		q = workq.NewQueue()
		c = &counters{}
	})

	AfterEach(func() {
		Expect(q.Close()).To(Succeed())
	})

	Specify("a queued item is cancelled once", func() {
		h := newItem(c, 0)
		Expect(q.Push(h.Clone())).To(Succeed())

		Expect(q.Cancel(h)).To(BeTrue())
		Expect(q.Cancel(h)).To(BeFalse())

		Expect(c.cancelled.Load()).To(BeEquivalentTo(1))
		Expect(h.Count()).To(BeEquivalentTo(1))
		Expect(c.dropped.Load()).To(BeZero())

		h.Release()
		Expect(c.dropped.Load()).To(BeEquivalentTo(1))
	})

	Specify("an item queued on another queue is left alone", func() {
		other := workq.NewQueue()
		defer other.Close()

		for i := 0; i < 3; i++ {
			Expect(q.Push(newItem(c, i))).To(Succeed())
		}

		h := newItem(c, 3)
		Expect(other.Push(h.Clone())).To(Succeed())

		Expect(q.Cancel(h)).To(BeFalse())
		Expect(c.cancelled.Load()).To(BeZero())
		Expect(h.Get().Queued()).To(BeTrue())
		Expect(q.Len()).To(Equal(3))
		Expect(other.Len()).To(Equal(1))

		var buf bytes.Buffer
		n, err := q.Deliver(context.Background(), &buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(3))
		Expect(buf.String()).To(Equal("0,1,2,"))

		Expect(other.Cancel(h)).To(BeTrue())
		Expect(other.IsEmpty()).To(BeTrue())
		Expect(c.cancelled.Load()).To(BeEquivalentTo(1))

		h.Release()
	})

	Specify("matching items are cancelled while the rest stay queued", func() {
		for i := 0; i < 6; i++ {
			Expect(q.Push(newItem(c, i))).To(Succeed())
		}

		n := q.CancelFunc(func(w workq.Work) bool {
			return w.(*testWork).id%2 == 0
		})
		Expect(n).To(Equal(3))
		Expect(c.cancelled.Load()).To(BeEquivalentTo(3))

		var ids []int
		q.Range(func(w workq.Work) bool {
			ids = append(ids, w.(*testWork).id)
			return true
		})
		Expect(ids).To(Equal([]int{1, 3, 5}))
		Expect(q.Stats().Cancelled).To(BeEquivalentTo(3))
	})
})

var _ = Describe("logging", func() {
	Specify("rejected items are logged", func() {
		core, logs := observer.New(zapcore.DebugLevel)
		q := workq.NewQueue(workq.WithLogger(zap.New(core)), workq.WithName("logged"))
		defer q.Close()

		h := newItem(&counters{}, 0)
		defer h.Release()

		Expect(q.Push(h.Clone())).To(Succeed())
		Expect(q.Push(h.Clone())).To(MatchError(workq.ErrDuplicate))

		entries := logs.FilterMessage("rejected item already on a queue").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ContextMap()).To(HaveKeyWithValue("queue", "logged"))
	})
})
