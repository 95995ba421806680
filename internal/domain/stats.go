package domain

import "github.com/holiman/uint256"

// GameStats aggregates global game counters. It is assembled on read from the
// subsystems' accumulator fields, never recomputed by scanning plants.
type GameStats struct {
	TotalPlantsMinted uint64       `json:"total_plants_minted"`
	TotalHarvests     uint64       `json:"total_harvests"`
	TotalRewardMinted *uint256.Int `json:"total_reward_minted"`
}

// PlayerStats aggregates per-account counters.
type PlayerStats struct {
	PlantsOwned      int          `json:"plants_owned"`
	TotalHarvested   *uint256.Int `json:"total_harvested"`
	AchievementCount int          `json:"achievement_count"`
}
