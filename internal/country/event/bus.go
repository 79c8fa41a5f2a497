package event

import (
	"context"
	"errors"
	"sync"

	"github.com/shandysiswandi/gocountry/internal/country/entity"
)

var (
	ErrBusClosed = errors.New("event bus is closed")
	ErrBusFull   = errors.New("event bus is full")
)

// Bus is an in-process queue of snapshot events. Publishing never blocks the
// refresh path: when the buffer is full the event is rejected, and the next
// successful refresh publishes a newer snapshot anyway.
type Bus struct {
	mu     sync.RWMutex
	closed bool
	ch     chan entity.SnapshotEvent
}

func NewBus(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}

	return &Bus{
		ch: make(chan entity.SnapshotEvent, buffer),
	}
}

func (b *Bus) Publish(ctx context.Context, event entity.SnapshotEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case b.ch <- event:
		return nil
	default:
		return ErrBusFull
	}
}

func (b *Bus) Subscribe() <-chan entity.SnapshotEvent {
	return b.ch
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.ch)
}
