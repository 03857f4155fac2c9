package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func queueBehavior(makeQueue func() EventQueue) {
	var queue EventQueue

	BeforeEach(func() {
		queue = makeQueue()
	})

	It("should pop in time order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			evt := &ScheduledEvent{
				Event:    NewEvent(VTimeInSec(rand.Float64()/1e8), nil, nil),
				sequence: uint64(i),
			}
			queue.Push(evt)
		}

		now := VTimeInSec(-1)
		for i := 0; i < numEvents; i++ {
			evt := queue.Pop()
			Expect(evt.Time() >= now).To(BeTrue())
			now = evt.Time()
		}
	})

	It("should break time ties by scheduling order", func() {
		numEvents := 100
		for i := 0; i < numEvents; i++ {
			evt := &ScheduledEvent{
				Event:    NewEvent(VTimeInSec(float64(i%4)), nil, nil),
				sequence: uint64(i),
			}
			queue.Push(evt)
		}

		var prev *ScheduledEvent
		for i := 0; i < numEvents; i++ {
			evt := queue.Pop()
			if prev != nil && prev.Time() == evt.Time() {
				Expect(evt.Sequence() > prev.Sequence()).To(BeTrue())
			}
			prev = evt
		}
	})

	It("should peek without removing", func() {
		evt := &ScheduledEvent{Event: NewEvent(1.0, nil, nil)}
		queue.Push(evt)

		Expect(queue.Peek()).To(BeIdenticalTo(evt))
		Expect(queue.Len()).To(Equal(1))
		Expect(queue.Pop()).To(BeIdenticalTo(evt))
		Expect(queue.Len()).To(Equal(0))
	})
}

var _ = Describe("EventQueueImpl", func() {
	queueBehavior(func() EventQueue { return NewEventQueue() })
})

var _ = Describe("InsertionQueue", func() {
	queueBehavior(func() EventQueue { return NewInsertionQueue() })
})
