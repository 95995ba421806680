package garden

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/items"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/plant"
)

// achievementThresholds are the lifetime-harvest counts that unlock an
// achievement.
var achievementThresholds = []uint64{1, 5, 25, 100}

// Config carries the orchestrator policy constants.
type Config struct {
	// PlantCost is the native payment required to plant a seed.
	PlantCost *uint256.Int
}

// DefaultConfig returns the production orchestration policy.
func DefaultConfig() Config {
	return Config{PlantCost: uint256.NewInt(1_000_000_000_000_000)} // 0.001
}

// Identities names the service accounts the orchestrator coordinates,
// exposed for clients that address the components directly.
type Identities struct {
	Garden domain.Account `json:"garden"`
	Token  domain.Account `json:"token"`
	Items  domain.Account `json:"items"`
	Plants domain.Account `json:"plants"`
}

// Service defines the garden game orchestration operations
type Service interface {
	// Queries
	TreasuryBalance() *uint256.Int
	GameStats() domain.GameStats
	PlayerStats(owner domain.Account) domain.PlayerStats
	Addresses() Identities

	// Mutations
	PlantSeed(ctx context.Context, caller domain.Account, name, species string, payment *uint256.Int) (*domain.Plant, error)
	Deposit(ctx context.Context, from domain.Account, amount *uint256.Int) error
	Withdraw(ctx context.Context, caller domain.Account) (*uint256.Int, error)
}

type service struct {
	cfg        Config
	roles      *auth.Registry
	bus        event.Bus
	itemsSvc   items.Service
	plantsSvc  plant.Service
	identities Identities

	mu       sync.Mutex
	treasury *uint256.Int
	harvests map[domain.Account]uint64
}

// NewService creates the orchestrator. identities.Garden is the identity the
// orchestrator presents to the item and plant services; wiring must grant it
// the game-contract and admin roles there. Harvest counts for achievements are
// tracked by subscribing to the event bus.
func NewService(cfg Config, roles *auth.Registry, bus event.Bus, itemsSvc items.Service, plantsSvc plant.Service, identities Identities) Service {
	s := &service{
		cfg:        cfg,
		roles:      roles,
		bus:        bus,
		itemsSvc:   itemsSvc,
		plantsSvc:  plantsSvc,
		identities: identities,
		treasury:   new(uint256.Int),
		harvests:   make(map[domain.Account]uint64),
	}
	if bus != nil {
		bus.Subscribe(event.PlantHarvested, s.onHarvest)
	}
	return s
}

func (s *service) onHarvest(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(event.PlantPayloadV1)
	if !ok {
		return fmt.Errorf("unexpected payload in %s event", evt.Type)
	}
	s.mu.Lock()
	s.harvests[domain.Account(payload.Owner)]++
	s.mu.Unlock()
	return nil
}

// PlantSeed consumes one seed item from the caller, mints a plant and banks
// the payment in the treasury. The steps are journaled: when a later step
// fails, earlier ones are compensated so the caller keeps the seed and the
// payment.
func (s *service) PlantSeed(ctx context.Context, caller domain.Account, name, species string, payment *uint256.Int) (*domain.Plant, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: caller required", domain.ErrInvalidInput)
	}
	if payment == nil || payment.Lt(s.cfg.PlantCost) {
		return nil, fmt.Errorf("%w: planting costs %s", domain.ErrInsufficientPayment, s.cfg.PlantCost.Dec())
	}

	// Sub-operation events are buffered and only reach subscribers when the
	// whole journal commits, so a failed planting leaves no event trail.
	bctx, buffered := event.WithBuffer(ctx)

	self := s.identities.Garden
	if err := s.itemsSvc.Consume(bctx, self, caller, domain.ItemSeed, 1); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, fmt.Errorf("%w: %v", domain.ErrNoSeedItem, err)
		}
		return nil, err
	}
	undo := []func(context.Context) error{
		func(ctx context.Context) error {
			return s.itemsSvc.AdminMint(ctx, self, caller, domain.ItemSeed, 1)
		},
	}

	p, err := s.plantsSvc.MintPlant(bctx, caller, name, species, payment)
	if err != nil {
		s.compensate(bctx, undo)
		buffered.Discard()
		return nil, err
	}

	s.mu.Lock()
	s.treasury.Add(s.treasury, payment)
	s.mu.Unlock()

	if s.bus != nil {
		if err := buffered.Flush(ctx, s.bus); err != nil {
			logger.FromContext(ctx).Error("Failed to publish planting events", "error", err)
		}
	}
	s.publish(ctx, event.New(event.TreasuryDeposit, event.TreasuryPayloadV1{
		Account: string(caller),
		Amount:  payment.Dec(),
	}))
	return p, nil
}

// compensate runs undo steps in reverse order. Failures are logged, not
// returned: the original error is what the caller needs.
func (s *service) compensate(ctx context.Context, undo []func(context.Context) error) {
	for i := len(undo) - 1; i >= 0; i-- {
		if err := undo[i](ctx); err != nil {
			logger.FromContext(ctx).Error("Failed to compensate planting step", "error", err)
		}
	}
}

// Deposit banks a native payment in the treasury.
func (s *service) Deposit(ctx context.Context, from domain.Account, amount *uint256.Int) error {
	if from.IsZero() || amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: deposit requires an account and a non-zero amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	s.treasury.Add(s.treasury, amount)
	s.mu.Unlock()

	s.publish(ctx, event.New(event.TreasuryDeposit, event.TreasuryPayloadV1{
		Account: string(from),
		Amount:  amount.Dec(),
	}))
	return nil
}

// Withdraw drains the full treasury to the caller. Restricted to the treasury
// owner.
func (s *service) Withdraw(ctx context.Context, caller domain.Account) (*uint256.Int, error) {
	if err := s.roles.Authorize(auth.RoleTreasuryOwner, caller); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.treasury.IsZero() {
		s.mu.Unlock()
		return nil, domain.ErrEmptyTreasury
	}
	amount := s.treasury.Clone()
	s.treasury.Clear()
	s.mu.Unlock()

	s.publish(ctx, event.New(event.TreasuryWithdrawal, event.TreasuryPayloadV1{
		Account: string(caller),
		Amount:  amount.Dec(),
	}))
	return amount, nil
}

func (s *service) TreasuryBalance() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.treasury.Clone()
}

// GameStats returns the global lifetime counters.
func (s *service) GameStats() domain.GameStats {
	minted, harvests, reward := s.plantsSvc.Counters()
	return domain.GameStats{
		TotalPlantsMinted: minted,
		TotalHarvests:     harvests,
		TotalRewardMinted: reward,
	}
}

// PlayerStats returns the per-player view: living plants, lifetime harvest
// total and unlocked achievements.
func (s *service) PlayerStats(owner domain.Account) domain.PlayerStats {
	s.mu.Lock()
	count := s.harvests[owner]
	s.mu.Unlock()

	achievements := 0
	for _, threshold := range achievementThresholds {
		if count >= threshold {
			achievements++
		}
	}
	return domain.PlayerStats{
		PlantsOwned:      len(s.plantsSvc.GetUserPlants(owner)),
		TotalHarvested:   s.plantsSvc.HarvestedBy(owner),
		AchievementCount: achievements,
	}
}

func (s *service) Addresses() Identities {
	return s.identities
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("Failed to publish treasury event", "error", err, "type", evt.Type)
	}
}
