package dtn

import (
	"github.com/sarchlab/dtnsim/sim"
)

// MessageBuffer stores the messages a node carries. Its capacity is counted
// in bytes. Messages are kept in arrival order.
type MessageBuffer struct {
	capacity int
	used     int
	messages []*Message
}

// NewMessageBuffer creates a buffer that can hold capacity bytes.
func NewMessageBuffer(capacity int) *MessageBuffer {
	return &MessageBuffer{capacity: capacity}
}

// Capacity returns the capacity in bytes.
func (b *MessageBuffer) Capacity() int { return b.capacity }

// Used returns the number of bytes occupied.
func (b *MessageBuffer) Used() int { return b.used }

// Len returns the number of messages.
func (b *MessageBuffer) Len() int { return len(b.messages) }

// Messages returns the buffered messages, oldest first.
func (b *MessageBuffer) Messages() []*Message {
	out := make([]*Message, len(b.messages))
	copy(out, b.messages)

	return out
}

// Get returns the message with the ID, or nil.
func (b *MessageBuffer) Get(id string) *Message {
	for _, m := range b.messages {
		if m.id == id {
			return m
		}
	}

	return nil
}

// Has tells if a message with the ID is buffered.
func (b *MessageBuffer) Has(id string) bool {
	return b.Get(id) != nil
}

// Add stores m, evicting the oldest messages until it fits. Messages for which
// pinned returns true are never evicted. It returns the evicted messages and
// whether m was stored.
func (b *MessageBuffer) Add(
	m *Message,
	pinned func(*Message) bool,
) (evicted []*Message, ok bool) {
	if b.Has(m.id) || !b.makeRoom(m.size, pinned) {
		return nil, false
	}

	for b.used+m.size > b.capacity {
		victim := b.oldestUnpinned(pinned)
		b.Remove(victim.id)
		evicted = append(evicted, victim)
	}

	b.messages = append(b.messages, m)
	b.used += m.size

	return evicted, true
}

func (b *MessageBuffer) makeRoom(size int, pinned func(*Message) bool) bool {
	free := b.capacity - b.used
	for _, m := range b.messages {
		if pinned == nil || !pinned(m) {
			free += m.size
		}
	}

	return size <= free
}

func (b *MessageBuffer) oldestUnpinned(pinned func(*Message) bool) *Message {
	for _, m := range b.messages {
		if pinned == nil || !pinned(m) {
			return m
		}
	}

	panic("no message can be evicted")
}

// Remove deletes the message with the ID and returns it, or nil if it is not
// buffered.
func (b *MessageBuffer) Remove(id string) *Message {
	for i, m := range b.messages {
		if m.id == id {
			b.messages = append(b.messages[:i], b.messages[i+1:]...)
			b.used -= m.size

			return m
		}
	}

	return nil
}

// DropExpired removes and returns the messages past their TTL.
func (b *MessageBuffer) DropExpired(now sim.VTimeInSec) []*Message {
	var expired []*Message

	kept := b.messages[:0]
	for _, m := range b.messages {
		if m.IsExpired(now) {
			expired = append(expired, m)
			b.used -= m.size
			continue
		}
		kept = append(kept, m)
	}
	b.messages = kept

	return expired
}
