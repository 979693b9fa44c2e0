package sim

import "fmt"

// DispatchContext carries the per-decision facts a policy may consult beyond
// the fleet snapshot. Policies stay pure: everything they read arrives
// through their arguments.
type DispatchContext struct {
	Clock int64
	// PendingUrgent is the number of queued calls at or above the
	// reservation threshold, including the call under consideration.
	PendingUrgent int
	// IdleUnits is the total number of Idle units fleet-wide, reachable or
	// not from this call's origin.
	IdleUnits int
}

// DispatchPolicy selects a unit for a Pending call, or defers it.
// candidates are the reachable Idle units ordered by (travel cost, ID).
// Returning ok=false leaves the call Pending for re-evaluation on the next
// relevant event. Implementations MUST NOT modify the call or candidates.
type DispatchPolicy interface {
	Select(call *Call, candidates []Candidate, ctx DispatchContext) (AmbulanceID, bool)
}

// Policy names accepted by NewPolicy.
const (
	PolicyNearest     = "nearest"
	PolicyReservation = "reservation"
)

// IsValidPolicy returns true if name is a recognized policy name.
func IsValidPolicy(name string) bool {
	switch name {
	case "", PolicyNearest, PolicyReservation:
		return true
	}
	return false
}

// NewPolicy creates a DispatchPolicy by name. Valid names: "nearest"
// (default), "reservation". Empty string defaults to NearestAvailable (for
// CLI flag default compatibility). Panics on unrecognized names.
func NewPolicy(name string, cfg PolicyConfig) DispatchPolicy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown dispatch policy %q", name))
	}
	switch name {
	case "", PolicyNearest:
		return &NearestAvailable{}
	case PolicyReservation:
		return &PriorityReservation{
			ReservedUnits: cfg.ReservedUnits,
			Threshold:     cfg.ReserveThreshold,
		}
	default:
		panic(fmt.Sprintf("unhandled dispatch policy %q", name))
	}
}

// NearestAvailable picks the Idle unit with the minimum travel cost to the
// call origin. Candidates arrive ordered by (cost, ID), so the head is the
// answer and ties already break deterministically by unit ID.
type NearestAvailable struct{}

func (p *NearestAvailable) Select(_ *Call, candidates []Candidate, _ DispatchContext) (AmbulanceID, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0].ID, true
}

// PriorityReservation keeps ReservedUnits Idle units in hand for calls at or
// above Threshold. Urgent calls always get the nearest unit. Lower-priority
// calls get the nearest unit only when no urgent call is pending, or when
// enough idle units remain that serving them cannot empty the reserve.
type PriorityReservation struct {
	ReservedUnits int
	Threshold     PriorityLevel
}

func (p *PriorityReservation) Select(call *Call, candidates []Candidate, ctx DispatchContext) (AmbulanceID, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	if call.Priority >= p.Threshold {
		return candidates[0].ID, true
	}
	if ctx.PendingUrgent > 0 && ctx.IdleUnits <= p.ReservedUnits {
		return "", false
	}
	return candidates[0].ID, true
}
