package plant

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/metrics"
	"github.com/verdantlabs/gardenledger/internal/token"
)

// Service defines the plant collection and lifecycle operations
type Service interface {
	// Queries
	GetPlant(plantID uint64) (*domain.Plant, error)
	GetUserPlants(owner domain.Account) []*domain.Plant
	CalculateWaterLevel(plantID uint64) (int, error)
	GetTimeUntilWater(plantID uint64) (time.Duration, error)
	PlantCount() uint64
	Counters() (minted, harvests uint64, rewardMinted *uint256.Int)
	HarvestedBy(owner domain.Account) *uint256.Int

	// Wiring
	SetTokenLedger(t token.Service)

	// Mutations
	MintPlant(ctx context.Context, owner domain.Account, name, species string, payment *uint256.Int) (*domain.Plant, error)
	AdminMintPlant(ctx context.Context, caller, owner domain.Account, name, species string, rarity int) (*domain.Plant, error)
	WaterPlant(ctx context.Context, caller domain.Account, plantID uint64) error
	UpdatePlantStage(ctx context.Context, plantID uint64) error
	HarvestPlant(ctx context.Context, caller domain.Account, plantID uint64) (*uint256.Int, error)
}

type service struct {
	cfg     Config
	roles   *auth.Registry
	bus     event.Bus
	now     func() time.Time
	tokens  token.Service
	account domain.Account // identity used when minting rewards

	mu          sync.Mutex
	plants      map[uint64]*domain.Plant
	byOwner     map[domain.Account]map[uint64]struct{}
	harvested   *lru.Cache[uint64, *domain.Plant]
	nextID      uint64
	minted      uint64
	harvests    uint64
	rewardTotal *uint256.Int
	harvestedBy map[domain.Account]*uint256.Int
}

// Option customizes the service at construction.
type Option func(*service)

// WithClock overrides the time source. Used by tests and simulations.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService creates the plant registry. account is the identity this service
// presents when minting harvest rewards; wiring must grant it the game-contract
// role on the token ledger and link the ledger via SetTokenLedger.
func NewService(cfg Config, roles *auth.Registry, bus event.Bus, account domain.Account, opts ...Option) Service {
	harvested, err := lru.New[uint64, *domain.Plant](cfg.HarvestedCacheSize)
	if err != nil {
		// Only possible with a non-positive size; fall back to a single slot.
		harvested, _ = lru.New[uint64, *domain.Plant](1)
	}
	s := &service{
		cfg:         cfg,
		roles:       roles,
		bus:         bus,
		now:         time.Now,
		account:     account,
		plants:      make(map[uint64]*domain.Plant),
		byOwner:     make(map[domain.Account]map[uint64]struct{}),
		harvested:   harvested,
		rewardTotal: new(uint256.Int),
		harvestedBy: make(map[domain.Account]*uint256.Int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTokenLedger links the reward ledger. Harvest fails until linked.
func (s *service) SetTokenLedger(t token.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = t
}

// MintPlant creates a plant for owner against a direct native payment. The
// plant starts at the seed stage with its watering cooldown already running,
// so the first watering is possible only after the cooldown elapses.
func (s *service) MintPlant(ctx context.Context, owner domain.Account, name, species string, payment *uint256.Int) (*domain.Plant, error) {
	if owner.IsZero() || name == "" || species == "" {
		return nil, fmt.Errorf("%w: mint requires an owner, name and species", domain.ErrInvalidInput)
	}
	if payment == nil || payment.Lt(s.cfg.PlantPrice) {
		return nil, fmt.Errorf("%w: plant costs %s", domain.ErrInsufficientPayment, s.cfg.PlantPrice.Dec())
	}

	s.mu.Lock()
	now := s.now()
	id := s.nextID
	p := s.newPlantLocked(id, owner, name, species, rarityFor(id, owner, now), now)
	s.mu.Unlock()

	metrics.PlantsSeeded.Inc()
	s.publish(ctx, event.NewPlantEvent(event.PlantSeeded, p.ID, p.Owner))
	return s.copyOf(p), nil
}

// AdminMintPlant creates a plant with a chosen rarity, bypassing payment.
// Restricted to administrators.
func (s *service) AdminMintPlant(ctx context.Context, caller, owner domain.Account, name, species string, rarity int) (*domain.Plant, error) {
	if err := s.roles.Authorize(auth.RoleAdmin, caller); err != nil {
		return nil, err
	}
	if owner.IsZero() || name == "" || species == "" {
		return nil, fmt.Errorf("%w: mint requires an owner, name and species", domain.ErrInvalidInput)
	}
	if rarity < domain.MinRarity || rarity > domain.MaxRarity {
		return nil, fmt.Errorf("%w: rarity %d out of range", domain.ErrInvalidInput, rarity)
	}

	s.mu.Lock()
	now := s.now()
	p := s.newPlantLocked(s.nextID, owner, name, species, rarity, now)
	s.mu.Unlock()

	metrics.PlantsSeeded.Inc()
	s.publish(ctx, event.NewPlantEvent(event.PlantSeeded, p.ID, p.Owner))
	return s.copyOf(p), nil
}

func (s *service) newPlantLocked(id uint64, owner domain.Account, name, species string, rarity int, now time.Time) *domain.Plant {
	p := &domain.Plant{
		ID:          id,
		Owner:       owner,
		Name:        name,
		Species:     species,
		Rarity:      rarity,
		Stage:       domain.StageSeed,
		PlantedAt:   now,
		LastWatered: now,
		Exists:      true,
	}
	s.plants[id] = p
	if s.byOwner[owner] == nil {
		s.byOwner[owner] = make(map[uint64]struct{})
	}
	s.byOwner[owner][id] = struct{}{}
	s.nextID++
	s.minted++
	return p
}

// WaterPlant resets the plant's water level. Only the owner may water, at most
// once per cooldown. When the plant's age has crossed a stage boundary and the
// water level at watering time is above the critical threshold, the plant
// advances one growth stage.
func (s *service) WaterPlant(ctx context.Context, caller domain.Account, plantID uint64) error {
	s.mu.Lock()

	p, ok := s.plants[plantID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
	}
	now := s.now()
	died := s.refreshDeathLocked(p, now)
	if p.Owner != caller {
		s.mu.Unlock()
		s.publishDeath(ctx, died, p)
		return fmt.Errorf("%w: plant %d belongs to %s", domain.ErrNotOwner, plantID, p.Owner)
	}
	if p.IsDead {
		s.mu.Unlock()
		s.publishDeath(ctx, died, p)
		return fmt.Errorf("%w: id %d", domain.ErrPlantDead, plantID)
	}
	if elapsed := now.Sub(p.LastWatered); elapsed < s.cfg.WaterCooldown {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s remaining", domain.ErrCooldownActive, s.cfg.WaterCooldown-elapsed)
	}

	level := s.cfg.waterLevelAt(p.LastWatered, now)
	advance := p.Stage < domain.StageMature &&
		s.cfg.stageAt(p.PlantedAt, now) > p.Stage &&
		level > criticalWaterLevel
	if advance {
		p.Stage++
	}
	p.LastWatered = now
	p.WaterCount++
	stage := p.Stage
	s.mu.Unlock()

	metrics.PlantsWatered.Inc()
	s.publish(ctx, event.New(event.PlantWatered, event.PlantPayloadV1{
		PlantID:    plantID,
		Owner:      string(caller),
		WaterLevel: maxWaterLevel,
	}))
	if advance {
		s.publish(ctx, event.New(event.StageAdvanced, event.PlantPayloadV1{
			PlantID: plantID,
			Owner:   string(caller),
			Stage:   stage.String(),
		}))
	}
	return nil
}

// UpdatePlantStage recomputes the age-derived stage for a plant. Callable by
// anyone and idempotent; the stage only moves forward and only while the plant
// is alive and not critically dry.
func (s *service) UpdatePlantStage(ctx context.Context, plantID uint64) error {
	s.mu.Lock()

	p, ok := s.plants[plantID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
	}
	now := s.now()
	died := s.refreshDeathLocked(p, now)
	if p.IsDead {
		s.mu.Unlock()
		s.publishDeath(ctx, died, p)
		return nil
	}

	advanced := false
	if target := s.cfg.stageAt(p.PlantedAt, now); target > p.Stage &&
		s.cfg.waterLevelAt(p.LastWatered, now) > criticalWaterLevel {
		p.Stage = target
		advanced = true
	}
	stage := p.Stage
	owner := p.Owner
	s.mu.Unlock()

	if advanced {
		s.publish(ctx, event.New(event.StageAdvanced, event.PlantPayloadV1{
			PlantID: plantID,
			Owner:   string(owner),
			Stage:   stage.String(),
		}))
	}
	return nil
}

// HarvestPlant retires a mature plant and mints its reward to the owner. The
// plant is removed only after the reward mint succeeds, so a failed mint
// (quota, supply cap) leaves it harvestable.
func (s *service) HarvestPlant(ctx context.Context, caller domain.Account, plantID uint64) (*uint256.Int, error) {
	s.mu.Lock()

	p, ok := s.plants[plantID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
	}
	now := s.now()
	died := s.refreshDeathLocked(p, now)
	if p.Owner != caller {
		s.mu.Unlock()
		s.publishDeath(ctx, died, p)
		return nil, fmt.Errorf("%w: plant %d belongs to %s", domain.ErrNotOwner, plantID, p.Owner)
	}
	if p.IsDead || p.Stage != domain.StageMature {
		s.mu.Unlock()
		s.publishDeath(ctx, died, p)
		return nil, fmt.Errorf("%w: plant %d is %s", domain.ErrPlantNotMature, plantID, plantState(p))
	}
	if s.tokens == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: token ledger not linked", domain.ErrUnauthorized)
	}

	reward, err := token.CalculateReward(p.Rarity, p.Stage)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.tokens.MintReward(ctx, s.account, p.Owner, reward); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("harvest reward mint: %w", err)
	}

	p.Exists = false
	delete(s.plants, plantID)
	delete(s.byOwner[p.Owner], plantID)
	s.harvested.Add(plantID, p)
	s.harvests++
	s.rewardTotal.Add(s.rewardTotal, reward)
	if prev, ok := s.harvestedBy[p.Owner]; ok {
		prev.Add(prev, reward)
	} else {
		s.harvestedBy[p.Owner] = reward.Clone()
	}
	s.mu.Unlock()

	metrics.PlantsHarvested.Inc()
	s.publish(ctx, event.New(event.PlantHarvested, event.PlantPayloadV1{
		PlantID: plantID,
		Owner:   string(caller),
		Reward:  reward.Dec(),
	}))
	return reward.Clone(), nil
}

func plantState(p *domain.Plant) string {
	if p.IsDead {
		return "dead"
	}
	return p.Stage.String()
}

// GetPlant returns a snapshot of the plant, including harvested plants still
// held in the retirement cache.
func (s *service) GetPlant(plantID uint64) (*domain.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.plants[plantID]; ok {
		c := s.copyOf(p)
		c.IsDead = c.IsDead || s.cfg.isDeadAt(p.LastWatered, s.now())
		return c, nil
	}
	if p, ok := s.harvested.Get(plantID); ok {
		return s.copyOf(p), nil
	}
	return nil, fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
}

// GetUserPlants returns the owner's living plants ordered by id.
func (s *service) GetUserPlants(owner domain.Account) []*domain.Plant {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byOwner[owner]
	out := make([]*domain.Plant, 0, len(ids))
	now := s.now()
	for id := range ids {
		p := s.plants[id]
		c := s.copyOf(p)
		c.IsDead = c.IsDead || s.cfg.isDeadAt(p.LastWatered, now)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CalculateWaterLevel returns the current water level, 100 down to 0.
func (s *service) CalculateWaterLevel(plantID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plants[plantID]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
	}
	return s.cfg.waterLevelAt(p.LastWatered, s.now()), nil
}

// GetTimeUntilWater reports the remaining watering cooldown, zero when the
// plant can be watered now.
func (s *service) GetTimeUntilWater(plantID uint64) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plants[plantID]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", domain.ErrPlantNotFound, plantID)
	}
	remaining := s.cfg.WaterCooldown - s.now().Sub(p.LastWatered)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

// PlantCount returns the total number of plants ever minted.
func (s *service) PlantCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minted
}

// Counters returns the aggregate mint and harvest counters.
func (s *service) Counters() (uint64, uint64, *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minted, s.harvests, s.rewardTotal.Clone()
}

// HarvestedBy returns the total reward ever harvested by the account.
func (s *service) HarvestedBy(owner domain.Account) *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if total, ok := s.harvestedBy[owner]; ok {
		return total.Clone()
	}
	return new(uint256.Int)
}

// refreshDeathLocked marks the plant dead when it has been dry past the death
// threshold. Returns true when the plant died on this observation.
func (s *service) refreshDeathLocked(p *domain.Plant, now time.Time) bool {
	if p.IsDead || !s.cfg.isDeadAt(p.LastWatered, now) {
		return false
	}
	p.IsDead = true
	return true
}

func (s *service) publishDeath(ctx context.Context, died bool, p *domain.Plant) {
	if !died {
		return
	}
	metrics.PlantsDied.Inc()
	s.publish(ctx, event.NewPlantEvent(event.PlantDied, p.ID, p.Owner))
}

func (s *service) copyOf(p *domain.Plant) *domain.Plant {
	c := *p
	return &c
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("Failed to publish plant event", "error", err, "type", evt.Type)
	}
}
