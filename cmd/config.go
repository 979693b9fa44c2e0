package cmd

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	sim "github.com/dispatch-sim/dispatch-sim/sim"
)

// Scenario is the on-disk run configuration: input table paths plus engine
// knobs. Values load from a YAML file, environment variables prefixed
// DSIM_ override the file, and CLI flags override both.
type Scenario struct {
	Network    string `koanf:"network"`
	Calls      string `koanf:"calls"`
	Ambulances string `koanf:"ambulances"`
	Priorities string `koanf:"priorities"`

	Policy             string `koanf:"policy"`
	Pathfinder         string `koanf:"pathfinder"`
	Seed               int64  `koanf:"seed"`
	HorizonTicks       int64  `koanf:"horizon_ticks"`
	CostTickScale      int64  `koanf:"cost_tick_scale"`
	AbandonAfterTicks  int64  `koanf:"abandon_after_ticks"`
	ServiceTicks       int64  `koanf:"service_ticks"`
	ServiceJitterTicks int64  `koanf:"service_jitter_ticks"`
	ReservedUnits      int    `koanf:"reserved_units"`
	ReserveThreshold   string `koanf:"reserve_threshold"`
}

// DefaultScenario mirrors sim.DefaultConfig for values the file may omit.
func DefaultScenario() Scenario {
	base := sim.DefaultConfig()
	return Scenario{
		Policy:           base.Policy,
		Pathfinder:       base.Pathfinder,
		Seed:             42, // matches the --seed flag default
		CostTickScale:    base.CostTickScale,
		ServiceTicks:     base.Service.OnSceneTicks,
		ReservedUnits:    base.PolicyConfig.ReservedUnits,
		ReserveThreshold: base.PolicyConfig.ReserveThreshold.String(),
	}
}

// LoadScenario reads the YAML scenario file at path (if non-empty) and
// applies DSIM_ environment overrides on top of the defaults.
func LoadScenario(path string) (*Scenario, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load scenario %s: %w", path, err)
		}
	}
	// Optional environment overrides: DSIM_SERVICE_TICKS=... etc.
	if err := k.Load(env.Provider("DSIM_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DSIM_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment overrides: %w", err)
	}

	cfg := DefaultScenario()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return &cfg, nil
}

// EngineConfig converts the scenario into the engine's configuration.
func (s *Scenario) EngineConfig() (sim.Config, error) {
	threshold, err := priorityFromName(s.ReserveThreshold)
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Horizon:       s.HorizonTicks,
		CostTickScale: s.CostTickScale,
		Pathfinder:    s.Pathfinder,
		Policy:        s.Policy,
		Seed:          s.Seed,
		PolicyConfig: sim.PolicyConfig{
			ReservedUnits:    s.ReservedUnits,
			ReserveThreshold: threshold,
		},
		Queue: sim.QueueConfig{
			AbandonAfterTicks: s.AbandonAfterTicks,
		},
		Service: sim.ServiceConfig{
			OnSceneTicks:       s.ServiceTicks,
			OnSceneJitterTicks: s.ServiceJitterTicks,
		},
	}, nil
}

func priorityFromName(name string) (sim.PriorityLevel, error) {
	switch strings.ToLower(name) {
	case "critical":
		return sim.PriorityCritical, nil
	case "high", "":
		return sim.PriorityHigh, nil
	case "medium":
		return sim.PriorityMedium, nil
	case "low":
		return sim.PriorityLow, nil
	default:
		return 0, fmt.Errorf("unknown priority level %q: %w", name, sim.ErrInput)
	}
}
