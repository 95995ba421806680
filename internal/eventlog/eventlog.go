package eventlog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/verdantlabs/gardenledger/internal/event"
)

// Entry is one persisted event.
type Entry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	Account   *string                `json:"account,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// Filter narrows event queries.
type Filter struct {
	Account   *string
	EventType *string
	Since     *time.Time
	Limit     int
}

// Repository defines the interface for event log storage
type Repository interface {
	// Insert stores one event.
	Insert(ctx context.Context, eventType string, account *string, payload []byte) error

	// List retrieves events matching the filter, newest first.
	List(ctx context.Context, filter Filter) ([]Entry, error)

	// Cleanup removes events older than the retention window and reports how
	// many were deleted.
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

// Service persists every bus event through the repository.
type Service struct {
	repo Repository
}

// NewService creates an event log service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Attach subscribes the service to every event type on the bus.
func (s *Service) Attach(bus event.Bus) {
	event.SubscribeAll(bus, s.record)
}

func (s *Service) record(ctx context.Context, evt event.Event) error {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return err
	}
	return s.repo.Insert(ctx, string(evt.Type), accountOf(evt.Payload), payload)
}

// accountOf pulls the most relevant account out of a typed payload so entries
// can be queried per player.
func accountOf(payload interface{}) *string {
	var account string
	switch p := payload.(type) {
	case event.TokenMovementPayloadV1:
		account = p.To
		if account == "" {
			account = p.From
		}
	case event.ItemMovementPayloadV1:
		account = p.To
	case event.PlantPayloadV1:
		account = p.Owner
	case event.TreasuryPayloadV1:
		account = p.Account
	}
	if account == "" {
		return nil
	}
	return &account
}
