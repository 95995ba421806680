package token

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

// baseReward maps rarity to the whole-token base harvest reward.
var baseReward = map[int]uint64{
	1: 10,
	2: 20,
	3: 30,
	4: 50,
	5: 100,
}

// stageMultiplier maps growth stage to the reward multiplier as a fraction.
// Stage SEED pays nothing: a seed is too young to harvest meaningfully.
var stageMultiplier = map[domain.GrowthStage][2]uint64{
	domain.StageSeed:    {0, 1},
	domain.StageSprout:  {1, 2},
	domain.StageGrowing: {3, 4},
	domain.StageMature:  {1, 1},
}

// CalculateReward computes the harvest reward in smallest units for a plant of
// the given rarity and growth stage. Pure function: no ledger state involved.
//
// The result is base(rarity) * unit * numerator / denominator, with the single
// division applied last so no rounding error accumulates.
func CalculateReward(rarity int, stage domain.GrowthStage) (*uint256.Int, error) {
	base, ok := baseReward[rarity]
	if !ok {
		return nil, fmt.Errorf("%w: rarity %d out of range", domain.ErrInvalidInput, rarity)
	}
	mult, ok := stageMultiplier[stage]
	if !ok {
		return nil, fmt.Errorf("%w: unknown growth stage %d", domain.ErrInvalidInput, stage)
	}

	reward := Tokens(base)
	reward.Mul(reward, uint256.NewInt(mult[0]))
	reward.Div(reward, uint256.NewInt(mult[1]))
	return reward, nil
}
