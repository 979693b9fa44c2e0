package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, int64(1000), cfg.CostTickScale)
	assert.Equal(t, ResolverDijkstra, cfg.Pathfinder)
	assert.Equal(t, PolicyNearest, cfg.Policy)
	assert.Equal(t, 1, cfg.PolicyConfig.ReservedUnits)
	assert.Equal(t, PriorityHigh, cfg.PolicyConfig.ReserveThreshold)
	assert.Equal(t, int64(0), cfg.Queue.AbandonAfterTicks)
	assert.Equal(t, int64(10000), cfg.Service.OnSceneTicks)
	assert.Equal(t, int64(0), cfg.Horizon)
}
