package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/metrics"
)

// Service defines the reward-token ledger operations
type Service interface {
	// Metadata
	Name() string
	Symbol() string
	Decimals() int

	// Queries
	BalanceOf(account domain.Account) *uint256.Int
	TotalSupply() *uint256.Int
	TotalBurned() *uint256.Int
	CirculatingSupply() *uint256.Int
	BurnRate() *uint256.Int
	TimeUntilBurn(account domain.Account) time.Duration

	// Mutations
	Transfer(ctx context.Context, from, to domain.Account, amount *uint256.Int) error
	MintReward(ctx context.Context, caller, to domain.Account, amount *uint256.Int) error
	Burn(ctx context.Context, caller domain.Account, amount *uint256.Int) error
}

type service struct {
	cfg   Config
	roles *auth.Registry
	bus   event.Bus
	now   func() time.Time

	mu             sync.Mutex
	balances       map[domain.Account]*uint256.Int
	totalSupply    *uint256.Int
	totalBurned    *uint256.Int
	windowStart    time.Time
	mintedInWindow *uint256.Int
	lastBurn       map[domain.Account]time.Time
}

// NewService creates a token ledger with the initial supply credited to owner.
func NewService(cfg Config, roles *auth.Registry, bus event.Bus, owner domain.Account) Service {
	s := &service{
		cfg:            cfg,
		roles:          roles,
		bus:            bus,
		now:            time.Now,
		balances:       make(map[domain.Account]*uint256.Int),
		totalSupply:    new(uint256.Int),
		totalBurned:    new(uint256.Int),
		mintedInWindow: new(uint256.Int),
		lastBurn:       make(map[domain.Account]time.Time),
	}
	s.windowStart = s.now()

	if cfg.InitialSupply != nil && !cfg.InitialSupply.IsZero() && !owner.IsZero() {
		s.balances[owner] = cfg.InitialSupply.Clone()
		s.totalSupply.Set(cfg.InitialSupply)
	}
	return s
}

func (s *service) Name() string   { return TokenName }
func (s *service) Symbol() string { return TokenSymbol }
func (s *service) Decimals() int  { return TokenDecimals }

// BalanceOf returns the account balance in smallest units.
func (s *service) BalanceOf(account domain.Account) *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(account).Clone()
}

func (s *service) balanceLocked(account domain.Account) *uint256.Int {
	if b, ok := s.balances[account]; ok {
		return b
	}
	return new(uint256.Int)
}

func (s *service) TotalSupply() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalSupply.Clone()
}

func (s *service) TotalBurned() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBurned.Clone()
}

// CirculatingSupply is the total supply minus balances held by registered
// reserve accounts (treasury and linked contract identities).
func (s *service) CirculatingSupply() *uint256.Int {
	reserves := s.roles.Members(auth.RoleReserve)

	s.mu.Lock()
	defer s.mu.Unlock()

	circulating := s.totalSupply.Clone()
	for _, account := range reserves {
		circulating.Sub(circulating, s.balanceLocked(account))
	}
	return circulating
}

// BurnRate returns totalBurned scaled by one token unit and divided by
// totalSupply. Zero when nothing was burned or supply is empty.
func (s *service) BurnRate() *uint256.Int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totalSupply.IsZero() || s.totalBurned.IsZero() {
		return new(uint256.Int)
	}
	rate := new(uint256.Int).Mul(s.totalBurned, Unit())
	return rate.Div(rate, s.totalSupply)
}

// TimeUntilBurn reports the remaining burn cooldown for the account, zero when
// it may burn now.
func (s *service) TimeUntilBurn(account domain.Account) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.lastBurn[account]
	if !ok {
		return 0
	}
	remaining := s.cfg.BurnCooldown - s.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Transfer moves amount from one account to another.
func (s *service) Transfer(ctx context.Context, from, to domain.Account, amount *uint256.Int) error {
	if from.IsZero() || to.IsZero() || amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: transfer requires non-zero accounts and amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	balance := s.balanceLocked(from)
	if balance.Lt(amount) {
		s.mu.Unlock()
		return fmt.Errorf("%w: have %s, need %s", domain.ErrInsufficientBalance, balance.Dec(), amount.Dec())
	}
	s.balances[from] = new(uint256.Int).Sub(balance, amount)
	s.balances[to] = new(uint256.Int).Add(s.balanceLocked(to), amount)
	s.mu.Unlock()

	s.publish(ctx, event.NewTokenEvent(event.TokenTransferred, from, to, amount.Dec()))
	return nil
}

// MintReward credits freshly minted tokens to an account. Restricted to the
// linked game-contract identity; enforces the supply cap and the rolling daily
// mint quota.
func (s *service) MintReward(ctx context.Context, caller, to domain.Account, amount *uint256.Int) error {
	if err := s.roles.Authorize(auth.RoleGameContract, caller); err != nil {
		return err
	}
	if to.IsZero() || amount == nil || amount.IsZero() {
		return fmt.Errorf("%w: mint requires a recipient and a non-zero amount", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	newSupply, overflow := new(uint256.Int).AddOverflow(s.totalSupply, amount)
	if overflow || newSupply.Gt(s.cfg.MaxSupply) {
		s.mu.Unlock()
		return fmt.Errorf("%w: supply %s + %s over cap %s",
			domain.ErrSupplyExceeded, s.totalSupply.Dec(), amount.Dec(), s.cfg.MaxSupply.Dec())
	}

	// Roll the daily window forward before checking the quota.
	now := s.now()
	if now.Sub(s.windowStart) >= day {
		s.windowStart = now
		s.mintedInWindow.Clear()
	}
	newMinted := new(uint256.Int).Add(s.mintedInWindow, amount)
	if newMinted.Gt(s.cfg.MaxDailyMint) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s minted this window, quota %s",
			domain.ErrDailyLimitExceeded, s.mintedInWindow.Dec(), s.cfg.MaxDailyMint.Dec())
	}

	s.totalSupply = newSupply
	s.mintedInWindow = newMinted
	s.balances[to] = new(uint256.Int).Add(s.balanceLocked(to), amount)
	s.mu.Unlock()

	metrics.TokensMinted.Inc()
	s.publish(ctx, event.NewTokenEvent(event.TokenMinted, domain.Zero, to, amount.Dec()))
	return nil
}

// Burn destroys tokens from the caller's own balance, subject to the minimum
// amount and the per-account cooldown.
func (s *service) Burn(ctx context.Context, caller domain.Account, amount *uint256.Int) error {
	if caller.IsZero() || amount == nil {
		return fmt.Errorf("%w: burn requires a caller and amount", domain.ErrInvalidInput)
	}
	if amount.Lt(s.cfg.MinBurnAmount) {
		return fmt.Errorf("%w: minimum is %s", domain.ErrBelowMinimum, s.cfg.MinBurnAmount.Dec())
	}

	s.mu.Lock()
	now := s.now()
	if last, ok := s.lastBurn[caller]; ok {
		if elapsed := now.Sub(last); elapsed < s.cfg.BurnCooldown {
			s.mu.Unlock()
			return fmt.Errorf("%w: %s remaining", domain.ErrCooldownActive, s.cfg.BurnCooldown-elapsed)
		}
	}
	balance := s.balanceLocked(caller)
	if balance.Lt(amount) {
		s.mu.Unlock()
		return fmt.Errorf("%w: have %s, need %s", domain.ErrInsufficientBalance, balance.Dec(), amount.Dec())
	}

	s.balances[caller] = new(uint256.Int).Sub(balance, amount)
	s.totalSupply.Sub(s.totalSupply, amount)
	s.totalBurned.Add(s.totalBurned, amount)
	s.lastBurn[caller] = now
	s.mu.Unlock()

	metrics.TokensBurned.Inc()
	s.publish(ctx, event.NewTokenEvent(event.TokenBurned, caller, domain.Zero, amount.Dec()))
	return nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("Failed to publish token event", "error", err, "type", evt.Type)
	}
}
