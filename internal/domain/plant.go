package domain

import "time"

// GrowthStage is the plant growth state machine position.
type GrowthStage uint8

const (
	StageSeed GrowthStage = iota
	StageSprout
	StageGrowing
	StageMature
)

// String returns a display name for the stage.
func (s GrowthStage) String() string {
	switch s {
	case StageSeed:
		return "seed"
	case StageSprout:
		return "sprout"
	case StageGrowing:
		return "growing"
	case StageMature:
		return "mature"
	default:
		return "unknown"
	}
}

// Rarity bounds. Rarity is fixed at mint and drives the base harvest reward.
const (
	MinRarity = 1
	MaxRarity = 5
)

// Plant is a single collectible plant record.
type Plant struct {
	ID          uint64      `json:"id"`
	Owner       Account     `json:"owner"`
	Name        string      `json:"name"`
	Species     string      `json:"species"`
	Rarity      int         `json:"rarity"`
	Stage       GrowthStage `json:"stage"`
	PlantedAt   time.Time   `json:"planted_at"`
	LastWatered time.Time   `json:"last_watered"`
	WaterCount  int         `json:"water_count"`
	IsDead      bool        `json:"is_dead"`
	Exists      bool        `json:"exists"`
}
