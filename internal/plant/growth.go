package plant

import (
	"hash/fnv"
	"time"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// waterLevelAt computes the current water level given the last watering time.
// The level drops by WaterDepletionRate every WaterDepletionTime and floors
// at zero.
func (c Config) waterLevelAt(lastWatered, now time.Time) int {
	if !now.After(lastWatered) {
		return maxWaterLevel
	}
	steps := int64(now.Sub(lastWatered) / c.WaterDepletionTime)
	lost := steps * int64(c.WaterDepletionRate)
	if lost >= maxWaterLevel {
		return 0
	}
	return maxWaterLevel - int(lost)
}

// timeToDry is how long a freshly watered plant takes to reach water level
// zero.
func (c Config) timeToDry() time.Duration {
	steps := (maxWaterLevel + int(c.WaterDepletionRate) - 1) / int(c.WaterDepletionRate)
	return time.Duration(steps) * c.WaterDepletionTime
}

// isDeadAt reports whether a plant has been fully dry longer than the death
// threshold.
func (c Config) isDeadAt(lastWatered, now time.Time) bool {
	return now.Sub(lastWatered) >= c.timeToDry()+c.DeathThreshold
}

// stageAt computes the age-derived growth stage, capped at mature.
func (c Config) stageAt(plantedAt, now time.Time) domain.GrowthStage {
	elapsed := now.Sub(plantedAt)
	if elapsed < 0 {
		return domain.StageSeed
	}
	stage := int64(elapsed / c.StageDuration)
	if stage >= int64(domain.StageMature) {
		return domain.StageMature
	}
	return domain.GrowthStage(stage)
}

// rarityFor derives a deterministic rarity tier from the mint inputs.
// Distribution: 40% common up to 5% legendary.
func rarityFor(id uint64, owner domain.Account, plantedAt time.Time) int {
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(id >> (8 * i))
		buf[8+i] = byte(uint64(plantedAt.UnixNano()) >> (8 * i))
	}
	h.Write(buf[:])
	h.Write([]byte(owner))
	roll := h.Sum64() % 100
	switch {
	case roll < 40:
		return 1
	case roll < 65:
		return 2
	case roll < 85:
		return 3
	case roll < 95:
		return 4
	default:
		return 5
	}
}
