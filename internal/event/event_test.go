package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	var received []Event
	bus.Subscribe(PlantWatered, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	evt := NewPlantEvent(PlantWatered, 7, "alice")
	require.NoError(t, bus.Publish(ctx, evt))

	require.Len(t, received, 1)
	assert.Equal(t, PlantWatered, received[0].Type)

	payload, ok := received[0].Payload.(PlantPayloadV1)
	require.True(t, ok)
	assert.Equal(t, uint64(7), payload.PlantID)
	assert.Equal(t, "alice", payload.Owner)
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	err := bus.Publish(context.Background(), New(TokenBurned, nil))
	assert.NoError(t, err)
}

func TestMemoryBusHandlerErrorsAggregated(t *testing.T) {
	bus := NewMemoryBus()
	calls := 0

	bus.Subscribe(TokenMinted, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	bus.Subscribe(TokenMinted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := bus.Publish(context.Background(), New(TokenMinted, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 handler(s) failed")
	assert.Equal(t, 2, calls, "all handlers should run despite errors")
}

func TestSubscribeAllReceivesEveryType(t *testing.T) {
	bus := NewMemoryBus()
	seen := make(map[Type]int)

	SubscribeAll(bus, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, typ := range AllTypes {
		require.NoError(t, bus.Publish(context.Background(), New(typ, nil)))
	}

	for _, typ := range AllTypes {
		assert.Equal(t, 1, seen[typ], "type %s", typ)
	}
}

func TestNewItemEventConvertsIDs(t *testing.T) {
	evt := NewItemEvent(ItemPurchased, domain.Zero, "bob",
		[]domain.ItemID{domain.ItemSeed, domain.ItemFertilizer}, []uint64{2, 1})

	payload, ok := evt.Payload.(ItemMovementPayloadV1)
	require.True(t, ok)
	assert.Equal(t, []uint64{0, 1}, payload.ItemIDs)
	assert.Equal(t, []uint64{2, 1}, payload.Amounts)
	assert.Equal(t, "bob", payload.To)
	assert.Empty(t, payload.From)
}
