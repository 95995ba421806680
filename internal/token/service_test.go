package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/gardenledger/internal/auth"
	"github.com/verdantlabs/gardenledger/internal/domain"
	"github.com/verdantlabs/gardenledger/internal/event"
)

const (
	owner        = domain.Account("owner")
	gameContract = domain.Account("game-contract")
	alice        = domain.Account("alice")
	bob          = domain.Account("bob")
)

// newTestLedger builds a linked ledger with a controllable clock.
func newTestLedger(t *testing.T, cfg Config) (*service, *auth.Registry, *time.Time) {
	t.Helper()

	roles := auth.NewRegistry()
	roles.Grant(auth.RoleGameContract, gameContract)

	svc := NewService(cfg, roles, event.NewMemoryBus(), owner).(*service)

	clock := svc.now()
	svc.now = func() time.Time { return clock }
	svc.windowStart = clock
	return svc, roles, &clock
}

func TestInitialSupplyCreditedToOwner(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	assert.Equal(t, Tokens(1_000_000), svc.BalanceOf(owner))
	assert.Equal(t, Tokens(1_000_000), svc.TotalSupply())
	assert.Equal(t, "Garden Token", svc.Name())
	assert.Equal(t, "GDN", svc.Symbol())
	assert.Equal(t, 18, svc.Decimals())
}

func TestMintRewardRequiresGameContract(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	err := svc.MintReward(context.Background(), alice, bob, Tokens(100))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.True(t, svc.BalanceOf(bob).IsZero())
}

func TestMintRewardFailsClosedBeforeLinking(t *testing.T) {
	roles := auth.NewRegistry() // no game contract linked
	svc := NewService(DefaultConfig(), roles, event.NewMemoryBus(), owner)

	err := svc.MintReward(context.Background(), gameContract, alice, Tokens(1))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestMintRewardCreditsAndGrowsSupply(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	require.NoError(t, svc.MintReward(context.Background(), gameContract, alice, Tokens(100)))

	assert.Equal(t, Tokens(100), svc.BalanceOf(alice))
	assert.Equal(t, Tokens(1_000_100), svc.TotalSupply())
}

func TestMintRewardEnforcesMaxSupply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSupply = Tokens(1_000_050)
	cfg.MaxDailyMint = Tokens(1_000_000)
	svc, _, _ := newTestLedger(t, cfg)

	err := svc.MintReward(context.Background(), gameContract, alice, Tokens(51))
	assert.True(t, errors.Is(err, domain.ErrSupplyExceeded))

	// Exactly reaching the cap is allowed.
	require.NoError(t, svc.MintReward(context.Background(), gameContract, alice, Tokens(50)))
	assert.Equal(t, cfg.MaxSupply, svc.TotalSupply())
}

func TestMintRewardEnforcesDailyQuota(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDailyMint = Tokens(100)
	svc, _, clock := newTestLedger(t, cfg)
	ctx := context.Background()

	require.NoError(t, svc.MintReward(ctx, gameContract, alice, Tokens(60)))
	require.NoError(t, svc.MintReward(ctx, gameContract, alice, Tokens(40)))

	err := svc.MintReward(ctx, gameContract, alice, Tokens(1))
	assert.True(t, errors.Is(err, domain.ErrDailyLimitExceeded))

	// The window resets a day later and minting resumes.
	*clock = clock.Add(24*time.Hour + time.Second)
	require.NoError(t, svc.MintReward(ctx, gameContract, alice, Tokens(100)))

	err = svc.MintReward(ctx, gameContract, alice, Tokens(1))
	assert.True(t, errors.Is(err, domain.ErrDailyLimitExceeded))
}

func TestBurnBelowMinimumRejected(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	err := svc.Burn(context.Background(), owner, Tokens(5))
	assert.True(t, errors.Is(err, domain.ErrBelowMinimum))
}

func TestBurnCooldown(t *testing.T) {
	svc, _, clock := newTestLedger(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, svc.Burn(ctx, owner, Tokens(10)))

	err := svc.Burn(ctx, owner, Tokens(10))
	assert.True(t, errors.Is(err, domain.ErrCooldownActive))

	remaining := svc.TimeUntilBurn(owner)
	assert.Equal(t, time.Hour, remaining)

	*clock = clock.Add(time.Hour + time.Second)
	assert.Zero(t, svc.TimeUntilBurn(owner))
	require.NoError(t, svc.Burn(ctx, owner, Tokens(10)))
}

func TestBurnAccounting(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())
	ctx := context.Background()

	before := svc.TotalSupply()
	require.NoError(t, svc.Burn(ctx, owner, Tokens(100)))

	assert.Equal(t, Tokens(100), svc.TotalBurned())
	assert.Equal(t, new(uint256.Int).Sub(before, Tokens(100)), svc.TotalSupply())
	assert.Equal(t, new(uint256.Int).Sub(Tokens(1_000_000), Tokens(100)), svc.BalanceOf(owner))
}

func TestBurnInsufficientBalance(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	err := svc.Burn(context.Background(), alice, Tokens(10))
	assert.True(t, errors.Is(err, domain.ErrInsufficientBalance))
}

func TestBurnRatePositiveAfterBurn(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())

	assert.True(t, svc.BurnRate().IsZero())

	require.NoError(t, svc.Burn(context.Background(), owner, Tokens(100)))
	assert.True(t, svc.BurnRate().Sign() > 0)
}

func TestTransfer(t *testing.T) {
	svc, _, _ := newTestLedger(t, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, svc.Transfer(ctx, owner, alice, Tokens(1_000)))
	assert.Equal(t, Tokens(1_000), svc.BalanceOf(alice))

	err := svc.Transfer(ctx, alice, bob, Tokens(2_000))
	assert.True(t, errors.Is(err, domain.ErrInsufficientBalance))
	assert.Equal(t, Tokens(1_000), svc.BalanceOf(alice), "failed transfer must not move funds")
	assert.True(t, svc.BalanceOf(bob).IsZero())
}

func TestCirculatingSupplyExcludesReserves(t *testing.T) {
	svc, roles, _ := newTestLedger(t, DefaultConfig())

	// With no reserves, circulating equals total.
	assert.Equal(t, svc.TotalSupply(), svc.CirculatingSupply())

	roles.Grant(auth.RoleReserve, owner)
	assert.True(t, svc.CirculatingSupply().IsZero())
}

func TestSupplyInvariantUnderMintSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSupply = Tokens(1_000_500)
	cfg.MaxDailyMint = Tokens(1_000_000)
	svc, _, _ := newTestLedger(t, cfg)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_ = svc.MintReward(ctx, gameContract, alice, Tokens(100))
		assert.True(t, !svc.TotalSupply().Gt(cfg.MaxSupply), "supply must never exceed the cap")
	}
	assert.Equal(t, cfg.MaxSupply, svc.TotalSupply())
}
