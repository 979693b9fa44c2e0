package sim

// PolicyConfig groups dispatch-policy parameters.
type PolicyConfig struct {
	ReservedUnits    int           // units held back for urgent calls ("reservation" policy)
	ReserveThreshold PriorityLevel // minimum priority that may tap the reserve
}

// QueueConfig groups call-queue parameters.
type QueueConfig struct {
	// AbandonAfterTicks is the maximum Pending wait before a call ages out
	// to Abandoned. 0 disables abandonment.
	AbandonAfterTicks int64
}

// ServiceConfig groups on-scene service-time parameters.
type ServiceConfig struct {
	OnSceneTicks int64 // base on-scene service duration
	// OnSceneJitterTicks adds a uniform [0, jitter] draw from the run's
	// "service" RNG subsystem. 0 keeps service times fully input-determined.
	OnSceneJitterTicks int64
}

// Config is the full engine configuration for one run.
type Config struct {
	// Horizon caps simulation time in ticks. 0 runs until the event heap
	// drains.
	Horizon int64
	// CostTickScale converts edge cost units to clock ticks. The conversion
	// rounds half-up exactly once, when an event is scheduled.
	CostTickScale int64
	Pathfinder    string // "dijkstra" (default) or "floyd-warshall"
	Policy        string // "nearest" (default) or "reservation"
	Seed          int64

	PolicyConfig PolicyConfig
	Queue        QueueConfig
	Service      ServiceConfig
}

// DefaultConfig returns the baseline configuration: nearest-available
// dispatch over on-demand Dijkstra, one reserved unit, no abandonment, a
// 10-cost-unit fixed service time.
func DefaultConfig() Config {
	return Config{
		CostTickScale: 1000,
		Pathfinder:    ResolverDijkstra,
		Policy:        PolicyNearest,
		PolicyConfig: PolicyConfig{
			ReservedUnits:    1,
			ReserveThreshold: PriorityHigh,
		},
		Service: ServiceConfig{
			OnSceneTicks: 10 * 1000,
		},
	}
}

// TicksFor converts a travel cost to clock ticks.
func (c Config) TicksFor(cost float64) int64 {
	return int64(cost*float64(c.CostTickScale) + 0.5)
}
