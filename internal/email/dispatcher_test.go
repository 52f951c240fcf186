package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToBackend(t *testing.T) {
	outbox := NewMemoryBackend()
	d := NewDispatcher(outbox)
	d.Start(context.Background())

	d.Enqueue(Message{To: "a@test.com", Subject: "first"})
	d.Enqueue(Message{To: "b@test.com", Subject: "second"})
	d.Flush()

	messages := outbox.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "a@test.com", messages[0].To)
	assert.Equal(t, "second", messages[1].Subject)
}

type failingBackend struct{}

func (failingBackend) Send(Message) error { return errors.New("smtp down") }

func TestDispatcher_FailedSendIsDropped(t *testing.T) {
	d := NewDispatcher(failingBackend{})
	d.Start(context.Background())

	// A failing backend must not wedge the worker or the flusher.
	d.Enqueue(Message{To: "a@test.com"})
	d.Flush()

	outbox := NewMemoryBackend()
	d2 := NewDispatcher(outbox)
	d2.Start(context.Background())
	d2.Enqueue(Message{To: "b@test.com"})
	d2.Flush()
	assert.Len(t, outbox.Messages(), 1)
}

type blockingBackend struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingBackend) Send(Message) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

func TestDispatcher_ShutdownUnblocksFlush(t *testing.T) {
	backend := &blockingBackend{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	d := NewDispatcher(backend)
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(Message{To: "a@test.com"})
	<-backend.started
	// Second message sits in the queue while the worker is mid-send.
	d.Enqueue(Message{To: "b@test.com"})

	cancel()
	close(backend.release)

	flushed := make(chan struct{})
	go func() {
		d.Flush()
		close(flushed)
	}()
	select {
	case <-flushed:
	case <-time.After(2 * time.Second):
		t.Fatal("Flush did not return after shutdown with queued messages")
	}

	// Once stopped, further messages are dropped without wedging Flush.
	d.Enqueue(Message{To: "c@test.com"})
	d.Flush()
}

func TestMemoryBackend_Reset(t *testing.T) {
	outbox := NewMemoryBackend()
	require.NoError(t, outbox.Send(Message{To: "a@test.com"}))
	require.Len(t, outbox.Messages(), 1)

	outbox.Reset()
	assert.Empty(t, outbox.Messages())
}

func TestMemoryBackend_MessagesIsACopy(t *testing.T) {
	outbox := NewMemoryBackend()
	require.NoError(t, outbox.Send(Message{To: "a@test.com"}))

	snapshot := outbox.Messages()
	snapshot[0].To = "mutated@test.com"
	assert.Equal(t, "a@test.com", outbox.Messages()[0].To)
}
