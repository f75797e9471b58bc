package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventQueueImpl", func() {
	var queue *EventQueueImpl

	BeforeEach(func() {
		queue = NewEventQueue()
	})

	It("should pop events in time order", func() {
		queue.Push(NewEventBase(3, nil))
		queue.Push(NewEventBase(1, nil))
		queue.Push(NewEventBase(2, nil))

		Expect(queue.Len()).To(Equal(3))
		Expect(queue.Peek().Time()).To(Equal(VTimeInSec(1)))
		Expect(queue.Pop().Time()).To(Equal(VTimeInSec(1)))
		Expect(queue.Pop().Time()).To(Equal(VTimeInSec(2)))
		Expect(queue.Pop().Time()).To(Equal(VTimeInSec(3)))
	})

	It("should keep push order for same-time events", func() {
		evts := make([]*EventBase, 0)
		for i := 0; i < 20; i++ {
			evt := NewEventBase(5, nil)
			evts = append(evts, evt)
			queue.Push(evt)
		}

		for _, evt := range evts {
			Expect(queue.Pop()).To(BeIdenticalTo(evt))
		}
	})

	It("should return nil when empty", func() {
		Expect(queue.Pop()).To(BeNil())
		Expect(queue.Peek()).To(BeNil())
	})
})
