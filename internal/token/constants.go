package token

import (
	"time"

	"github.com/holiman/uint256"
)

// Token metadata, fixed for the life of the ledger.
const (
	TokenName     = "Garden Token"
	TokenSymbol   = "GDN"
	TokenDecimals = 18
)

// day is the rolling mint-quota window length.
const day = 24 * time.Hour

// unitWei is 10^18, one whole token in the smallest unit.
const unitWei = 1_000_000_000_000_000_000

// Unit returns one whole token (10^18 smallest units).
func Unit() *uint256.Int {
	return uint256.NewInt(unitWei)
}

// Tokens converts a whole-token count to smallest units.
func Tokens(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), Unit())
}

// Config carries the ledger policy constants. All amounts are in smallest units.
type Config struct {
	MaxSupply     *uint256.Int
	MaxDailyMint  *uint256.Int
	MinBurnAmount *uint256.Int
	InitialSupply *uint256.Int
	BurnCooldown  time.Duration
}

// DefaultConfig returns the production policy: 10M GDN cap, 10k GDN daily mint
// quota, 10 GDN minimum burn, 1h burn cooldown, 1M GDN initial supply.
func DefaultConfig() Config {
	return Config{
		MaxSupply:     Tokens(10_000_000),
		MaxDailyMint:  Tokens(10_000),
		MinBurnAmount: Tokens(10),
		InitialSupply: Tokens(1_000_000),
		BurnCooldown:  time.Hour,
	}
}
