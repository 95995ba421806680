package event

import (
	"context"
	"fmt"
	"sync"
)

type bufferKey struct{}

// Buffer holds events published during a composite operation so subscribers
// only see them if the operation commits. A bus that finds a buffer on the
// context appends to it instead of fanning out.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

// WithBuffer returns a context carrying a fresh buffer. Events published with
// the returned context are held until Flush or dropped by Discard.
func WithBuffer(ctx context.Context) (context.Context, *Buffer) {
	b := &Buffer{}
	return context.WithValue(ctx, bufferKey{}, b), b
}

func bufferFrom(ctx context.Context) *Buffer {
	b, _ := ctx.Value(bufferKey{}).(*Buffer)
	return b
}

func (b *Buffer) add(evt Event) {
	b.mu.Lock()
	b.events = append(b.events, evt)
	b.mu.Unlock()
}

// Len reports how many events are currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Flush publishes the held events to the bus in publication order and empties
// the buffer. The fanout happens with the buffer detached from the context, so
// flushed events are not captured again.
func (b *Buffer) Flush(ctx context.Context, bus Bus) error {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	ctx = context.WithValue(ctx, bufferKey{}, (*Buffer)(nil))
	var errs []error
	for _, evt := range events {
		if err := bus.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d buffered event(s) failed to publish: %v", len(errs), errs)
	}
	return nil
}

// Discard drops the held events without publishing them.
func (b *Buffer) Discard() {
	b.mu.Lock()
	b.events = nil
	b.mu.Unlock()
}
