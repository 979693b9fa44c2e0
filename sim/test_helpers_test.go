package sim

import "testing"

// lineEdges builds the standard test network:
//
//	Base --5--> Scene --5--> Base (round trip)
//	Base --2--> Near        (no way back)
//	Far is isolated
//
// Costs are in cost units; tests use CostTickScale=1 so ticks equal costs.
func lineEdges() []EdgeRecord {
	return []EdgeRecord{
		{From: "Base", To: "Scene", Cost: 5},
		{From: "Scene", To: "Base", Cost: 5},
		{From: "Base", To: "Near", Cost: 2},
		{From: "Far", To: "Far", Cost: 0},
	}
}

// testConfig returns a config with unit cost scale and a 10-tick fixed
// service time, so event timings in tests are easy to read.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CostTickScale = 1
	cfg.Service.OnSceneTicks = 10
	return cfg
}

// testInputs builds Inputs over lineEdges with a single unit staged at Base
// and the given calls. Call type "cardiac" maps to Critical, "fall" to Low.
func testInputs(calls ...CallRecord) Inputs {
	return Inputs{
		Edges:      lineEdges(),
		Ambulances: []AmbulanceRecord{{ID: "amb1", Base: "Base"}},
		Calls:      calls,
		Priorities: map[string]int{"cardiac": 1, "breathing": 2, "fracture": 3, "fall": 4},
	}
}

// newTestSim builds a simulator or fails the test.
func newTestSim(t *testing.T, cfg Config, in Inputs) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, in)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}
