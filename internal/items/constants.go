package items

import (
	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// Config carries the marketplace price table. Prices are in smallest native
// payment units.
type Config struct {
	Prices map[domain.ItemID]*uint256.Int
}

// DefaultConfig returns the production price table. Prices are denominated in
// the smallest unit, so 1e14 is 0.0001 of a whole token.
func DefaultConfig() Config {
	return Config{
		Prices: map[domain.ItemID]*uint256.Int{
			domain.ItemSeed:         uint256.NewInt(500_000_000_000_000),    // 0.0005
			domain.ItemFertilizer:   uint256.NewInt(1_000_000_000_000_000),  // 0.001
			domain.ItemWaterCan:     uint256.NewInt(2_000_000_000_000_000),  // 0.002
			domain.ItemGoldenShovel: uint256.NewInt(10_000_000_000_000_000), // 0.01
			domain.ItemMysteryBox:   uint256.NewInt(5_000_000_000_000_000),  // 0.005
		},
	}
}
