package sim

import "fmt"

// AmbulanceState represents the lifecycle state of a unit.
type AmbulanceState string

const (
	AmbulanceIdle       AmbulanceState = "idle"
	AmbulanceDispatched AmbulanceState = "dispatched"
	AmbulanceEnRoute    AmbulanceState = "enroute"
	AmbulanceOnScene    AmbulanceState = "onscene"
	AmbulanceReturning  AmbulanceState = "returning"
)

// ambulanceTransitions enumerates the legal state machine:
// Idle -> Dispatched -> EnRoute -> OnScene -> Returning -> Idle.
// No transition skips a step; Returning -> Idle is the only path back to
// availability.
var ambulanceTransitions = map[AmbulanceState]map[AmbulanceState]bool{
	AmbulanceIdle:       {AmbulanceDispatched: true},
	AmbulanceDispatched: {AmbulanceEnRoute: true},
	AmbulanceEnRoute:    {AmbulanceOnScene: true},
	AmbulanceOnScene:    {AmbulanceReturning: true},
	AmbulanceReturning:  {AmbulanceIdle: true},
}

// Ambulance models one unit of the fleet. A unit serves at most one call at a
// time; Call holds the inverse reference, giving a strict one-to-one pairing
// for the duration of service.
type Ambulance struct {
	ID       AmbulanceID
	Base     LocationID
	Location LocationID
	State    AmbulanceState
	Call     CallID // call currently served, empty while Idle

	// busySince is the tick the unit left Idle; busyTicks accumulates each
	// completed Dispatched -> Idle cycle for utilization reporting.
	busySince int64
	busyTicks int64
}

// transition moves the unit to next, failing with ErrInvalidTransition if the
// state machine forbids it.
func (a *Ambulance) transition(next AmbulanceState) error {
	if !ambulanceTransitions[a.State][next] {
		return fmt.Errorf("ambulance %s: %s -> %s: %w", a.ID, a.State, next, ErrInvalidTransition)
	}
	a.State = next
	return nil
}

// BusyTicks returns total busy time through endTicks. A unit caught mid-cycle
// (run truncated) counts as busy from dispatch through run end.
func (a *Ambulance) BusyTicks(endTicks int64) int64 {
	total := a.busyTicks
	if a.State != AmbulanceIdle {
		total += endTicks - a.busySince
	}
	return total
}

func (a Ambulance) String() string {
	return fmt.Sprintf("Ambulance: (ID: %s, State: %s, Location: %s)", a.ID, a.State, a.Location)
}
