package email

import "sync"

// MemoryBackend records messages in an owned outbox instead of sending them.
// Tests inject it and assert against Messages between Reset calls.
type MemoryBackend struct {
	mu     sync.Mutex
	outbox []Message
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Send(m Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outbox = append(b.outbox, m)
	return nil
}

// Messages returns a copy of the captured outbox.
func (b *MemoryBackend) Messages() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.outbox))
	copy(out, b.outbox)
	return out
}

// Reset clears the outbox. Call between scoped test uses.
func (b *MemoryBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outbox = nil
}
