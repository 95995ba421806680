package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferHoldsEventsUntilFlush(t *testing.T) {
	bus := NewMemoryBus()

	var received []Type
	SubscribeAll(bus, func(_ context.Context, e Event) error {
		received = append(received, e.Type)
		return nil
	})

	ctx, buf := WithBuffer(context.Background())
	require.NoError(t, bus.Publish(ctx, New(ItemTransferred, nil)))
	require.NoError(t, bus.Publish(ctx, New(PlantSeeded, nil)))

	assert.Empty(t, received, "buffered events must not fan out")
	assert.Equal(t, 2, buf.Len())

	require.NoError(t, buf.Flush(context.Background(), bus))
	assert.Equal(t, []Type{ItemTransferred, PlantSeeded}, received)
	assert.Equal(t, 0, buf.Len())

	// A second flush has nothing left to publish.
	require.NoError(t, buf.Flush(context.Background(), bus))
	assert.Len(t, received, 2)
}

func TestBufferDiscardDropsEvents(t *testing.T) {
	bus := NewMemoryBus()

	var received []Type
	SubscribeAll(bus, func(_ context.Context, e Event) error {
		received = append(received, e.Type)
		return nil
	})

	ctx, buf := WithBuffer(context.Background())
	require.NoError(t, bus.Publish(ctx, New(ItemMinted, nil)))
	buf.Discard()

	require.NoError(t, buf.Flush(context.Background(), bus))
	assert.Empty(t, received)
}

func TestBufferFlushWithBufferedContext(t *testing.T) {
	bus := NewMemoryBus()

	var received []Type
	SubscribeAll(bus, func(_ context.Context, e Event) error {
		received = append(received, e.Type)
		return nil
	})

	ctx, buf := WithBuffer(context.Background())
	require.NoError(t, bus.Publish(ctx, New(TokenMinted, nil)))

	// Flushing with the buffered context must not re-capture the events.
	require.NoError(t, buf.Flush(ctx, bus))
	assert.Equal(t, []Type{TokenMinted}, received)
	assert.Equal(t, 0, buf.Len())
}
