// Package trace provides the ordered event log a dispatch run produces.
// This package has no dependencies on sim/; it stores pure data types, so
// external reporters can consume it without pulling in the engine.
package trace

// Record captures one state-transition event. Seq is the processing order
// assigned by the engine; two runs over identical input, policy and seed
// produce identical record sequences.
type Record struct {
	Seq         uint64
	Ticks       int64
	Kind        string
	CallID      string // empty for events with no call subject
	AmbulanceID string // empty for events with no unit subject
	Detail      string // free-form annotation (rejection reason, travel ticks)
}

// DispatchRow is one line of the dispatch log, the per-assignment view an
// external reporter prints. Columns mirror the service's historical log
// format.
type DispatchRow struct {
	CallID            string
	CallType          string
	CallLocation      string
	SelectedAmbulance string
	TravelCost        float64 // time to call location, in cost units
}
