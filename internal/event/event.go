package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// EventSchemaVersion is the current event schema version.
const EventSchemaVersion = "1.0"

// Type represents the type of an event
type Type string

// Common event types, mirrored from the domain constants so subscribers can
// use the typed form.
const (
	TokenMinted        Type = domain.EventTypeTokenMinted
	TokenBurned        Type = domain.EventTypeTokenBurned
	TokenTransferred   Type = domain.EventTypeTokenTransferred
	ItemPurchased      Type = domain.EventTypeItemPurchased
	ItemMinted         Type = domain.EventTypeItemMinted
	ItemTransferred    Type = domain.EventTypeItemTransferred
	PlantSeeded        Type = domain.EventTypePlantSeeded
	PlantWatered       Type = domain.EventTypePlantWatered
	StageAdvanced      Type = domain.EventTypeStageAdvanced
	PlantDied          Type = domain.EventTypePlantDied
	PlantHarvested     Type = domain.EventTypePlantHarvested
	TreasuryDeposit    Type = domain.EventTypeTreasuryDeposit
	TreasuryWithdrawal Type = domain.EventTypeTreasuryWithdrawal
)

// AllTypes lists every event type the system publishes, for subscribers that
// want the full feed (event log, live stream).
var AllTypes = []Type{
	TokenMinted, TokenBurned, TokenTransferred,
	ItemPurchased, ItemMinted, ItemTransferred,
	PlantSeeded, PlantWatered, StageAdvanced, PlantDied, PlantHarvested,
	TreasuryDeposit, TreasuryWithdrawal,
}

// Event represents a generic event in the system
type Event struct {
	Version   string      `json:"version"` // Event schema version (e.g., "1.0")
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp int64       `json:"timestamp"`
}

// Typed event payloads for type safety

// TokenMovementPayloadV1 is the typed payload for mint, burn and transfer events.
// Amounts are decimal strings in the token's smallest unit.
type TokenMovementPayloadV1 struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Amount string `json:"amount"`
}

// ItemMovementPayloadV1 is the typed payload for item purchase, mint and transfer events
type ItemMovementPayloadV1 struct {
	From    string   `json:"from,omitempty"`
	To      string   `json:"to"`
	ItemIDs []uint64 `json:"item_ids"`
	Amounts []uint64 `json:"amounts"`
}

// PlantPayloadV1 is the typed payload for plant lifecycle events
type PlantPayloadV1 struct {
	PlantID    uint64 `json:"plant_id"`
	Owner      string `json:"owner"`
	Stage      string `json:"stage,omitempty"`
	WaterLevel uint8  `json:"water_level,omitempty"`
	Reward     string `json:"reward,omitempty"`
}

// TreasuryPayloadV1 is the typed payload for treasury movement events
type TreasuryPayloadV1 struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// New creates an event of the given type with the current timestamp.
func New(t Type, payload interface{}) Event {
	return Event{
		Version:   EventSchemaVersion,
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	}
}

// NewTokenEvent creates a token movement event.
func NewTokenEvent(t Type, from, to domain.Account, amount string) Event {
	return New(t, TokenMovementPayloadV1{
		From:   string(from),
		To:     string(to),
		Amount: amount,
	})
}

// NewItemEvent creates an item movement event.
func NewItemEvent(t Type, from, to domain.Account, ids []domain.ItemID, amounts []uint64) Event {
	rawIDs := make([]uint64, len(ids))
	for i, id := range ids {
		rawIDs[i] = uint64(id)
	}
	return New(t, ItemMovementPayloadV1{
		From:    string(from),
		To:      string(to),
		ItemIDs: rawIDs,
		Amounts: amounts,
	})
}

// NewPlantEvent creates a plant lifecycle event.
func NewPlantEvent(t Type, plantID uint64, owner domain.Account) Event {
	return New(t, PlantPayloadV1{PlantID: plantID, Owner: string(owner)})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously;
// their errors are collected and returned but do not stop the fanout. When the
// context carries a Buffer the event is held there instead of fanning out.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	if buf := bufferFrom(ctx); buf != nil {
		buf.add(event)
		return nil
	}

	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d handler(s) failed for event %s: %v", len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes the handler to every known event type.
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}
