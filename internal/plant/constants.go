package plant

import (
	"time"

	"github.com/holiman/uint256"
)

// maxWaterLevel is the water level right after watering.
const maxWaterLevel = 100

// criticalWaterLevel is the level at or below which a plant is too dry to
// advance a growth stage.
const criticalWaterLevel = 20

// Config carries the plant lifecycle policy constants.
type Config struct {
	// PlantPrice is the direct mint price in smallest native units.
	PlantPrice *uint256.Int

	// StageDuration is the elapsed time per growth stage boundary.
	StageDuration time.Duration

	// WaterCooldown is the minimum time between waterings (8h in production).
	WaterCooldown time.Duration

	// WaterDepletionRate points are lost per WaterDepletionTime elapsed.
	WaterDepletionRate uint8
	WaterDepletionTime time.Duration

	// DeathThreshold is how long a plant survives after its water level
	// reaches zero.
	DeathThreshold time.Duration

	// HarvestedCacheSize bounds the retained records of harvested plants.
	HarvestedCacheSize int
}

// DefaultConfig returns the production lifecycle policy.
func DefaultConfig() Config {
	return Config{
		PlantPrice:         uint256.NewInt(1_000_000_000_000_000), // 0.001
		StageDuration:      24 * time.Hour,
		WaterCooldown:      8 * time.Hour,
		WaterDepletionRate: 10,
		WaterDepletionTime: 6 * time.Hour,
		DeathThreshold:     24 * time.Hour,
		HarvestedCacheSize: 1024,
	}
}
