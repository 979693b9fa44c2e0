package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	sim "github.com/dispatch-sim/dispatch-sim/sim"
)

func TestLoadScenario_Defaults(t *testing.T) {
	// GIVEN no file and no environment overrides
	s, err := LoadScenario("")
	assert.NoError(t, err)

	// THEN the scenario mirrors the engine defaults
	assert.Equal(t, sim.PolicyNearest, s.Policy)
	assert.Equal(t, sim.ResolverDijkstra, s.Pathfinder)
	assert.Equal(t, int64(1000), s.CostTickScale)
	assert.Equal(t, int64(10000), s.ServiceTicks)
	assert.Equal(t, "high", s.ReserveThreshold)
	// the documented --seed default, applied even when the flag is untouched
	assert.Equal(t, int64(42), s.Seed)
}

func TestLoadScenario_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	content := `
network: data/network.csv
calls: data/calls.csv
ambulances: data/ambulances.csv
priorities: data/priorities.csv
policy: reservation
pathfinder: floyd-warshall
seed: 42
horizon_ticks: 100000
abandon_after_ticks: 3000
reserved_units: 2
reserve_threshold: critical
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadScenario(path)
	assert.NoError(t, err)

	assert.Equal(t, "data/network.csv", s.Network)
	assert.Equal(t, sim.PolicyReservation, s.Policy)
	assert.Equal(t, sim.ResolverFloydWarshall, s.Pathfinder)
	assert.Equal(t, int64(42), s.Seed)
	assert.Equal(t, int64(100000), s.HorizonTicks)
	assert.Equal(t, int64(3000), s.AbandonAfterTicks)
	assert.Equal(t, 2, s.ReservedUnits)
	// file omits service_ticks, so the default survives
	assert.Equal(t, int64(10000), s.ServiceTicks)
}

func TestLoadScenario_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("seed: 1\npolicy: nearest\n"), 0o644))

	t.Setenv("DSIM_SEED", "99")
	t.Setenv("DSIM_POLICY", "reservation")

	s, err := LoadScenario(path)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), s.Seed)
	assert.Equal(t, sim.PolicyReservation, s.Policy)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestScenario_EngineConfig(t *testing.T) {
	s := DefaultScenario()
	s.HorizonTicks = 500
	s.AbandonAfterTicks = 20
	s.ServiceJitterTicks = 3
	s.ReserveThreshold = "critical"

	cfg, err := s.EngineConfig()
	assert.NoError(t, err)

	assert.Equal(t, int64(500), cfg.Horizon)
	assert.Equal(t, int64(20), cfg.Queue.AbandonAfterTicks)
	assert.Equal(t, int64(3), cfg.Service.OnSceneJitterTicks)
	assert.Equal(t, sim.PriorityCritical, cfg.PolicyConfig.ReserveThreshold)
}

func TestScenario_EngineConfigBadThreshold(t *testing.T) {
	s := DefaultScenario()
	s.ReserveThreshold = "extreme"
	_, err := s.EngineConfig()
	assert.ErrorIs(t, err, sim.ErrInput)
}

func TestPriorityFromName(t *testing.T) {
	for name, want := range map[string]sim.PriorityLevel{
		"critical": sim.PriorityCritical,
		"High":     sim.PriorityHigh,
		"":         sim.PriorityHigh,
		"medium":   sim.PriorityMedium,
		"low":      sim.PriorityLow,
	} {
		got, err := priorityFromName(name)
		assert.NoError(t, err, "name %q", name)
		assert.Equal(t, want, got, "name %q", name)
	}
}
