package plant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verdantlabs/gardenledger/internal/domain"
)

func TestStageAt(t *testing.T) {
	cfg := DefaultConfig()
	planted := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want domain.GrowthStage
	}{
		{"just planted", 0, domain.StageSeed},
		{"before first boundary", 23 * time.Hour, domain.StageSeed},
		{"first boundary", 24 * time.Hour, domain.StageSprout},
		{"second boundary", 48 * time.Hour, domain.StageGrowing},
		{"mature boundary", 72 * time.Hour, domain.StageMature},
		{"well past maturity", 100 * 24 * time.Hour, domain.StageMature},
		{"clock skew before planting", -time.Hour, domain.StageSeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.stageAt(planted, planted.Add(tt.age)))
		})
	}
}

func TestTimeToDry(t *testing.T) {
	cfg := DefaultConfig()
	// 100 points at 10 points per 6h.
	assert.Equal(t, 60*time.Hour, cfg.timeToDry())
}
