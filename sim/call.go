// Defines the Call struct that models an individual emergency call in the
// simulation. Tracks arrival, assignment, on-scene and completion timestamps
// for response-time metrics.

package sim

import "fmt"

// CallState represents the lifecycle state of a call.
type CallState string

const (
	CallPending   CallState = "pending"
	CallAssigned  CallState = "assigned"
	CallEnRoute   CallState = "enroute"
	CallOnScene   CallState = "onscene"
	CallCompleted CallState = "completed"
	CallAbandoned CallState = "abandoned"
)

// callTransitions enumerates the legal state machine:
// Pending -> Assigned -> EnRoute -> OnScene -> Completed, with
// Pending -> Abandoned as the alternate terminal branch.
var callTransitions = map[CallState]map[CallState]bool{
	CallPending:  {CallAssigned: true, CallAbandoned: true},
	CallAssigned: {CallEnRoute: true},
	CallEnRoute:  {CallOnScene: true},
	CallOnScene:  {CallCompleted: true},
}

// Call models a single call's lifecycle in the simulation.
type Call struct {
	ID       CallID
	Origin   LocationID
	CallType string
	Priority PriorityLevel

	State    CallState
	Assigned AmbulanceID // unit currently serving this call, empty while Pending

	ArrivalTicks   int64
	AssignedTicks  int64
	OnSceneTicks   int64
	CompletedTicks int64
}

// NewCall builds a Pending call from its input record and mapped priority.
func NewCall(rec CallRecord, priority PriorityLevel) *Call {
	return &Call{
		ID:           rec.ID,
		Origin:       rec.Origin,
		CallType:     rec.CallType,
		Priority:     priority,
		State:        CallPending,
		ArrivalTicks: rec.ArrivalTicks,
	}
}

// Terminal reports whether the call has reached Completed or Abandoned.
func (c *Call) Terminal() bool {
	return c.State == CallCompleted || c.State == CallAbandoned
}

// transition moves the call to next, failing with ErrInvalidTransition if the
// state machine forbids it.
func (c *Call) transition(next CallState) error {
	if !callTransitions[c.State][next] {
		return fmt.Errorf("call %s: %s -> %s: %w", c.ID, c.State, next, ErrInvalidTransition)
	}
	c.State = next
	return nil
}

// ResponseTicks is the arrival -> on-scene latency, the primary per-call
// metric. Only meaningful once the call has reached OnScene.
func (c *Call) ResponseTicks() int64 {
	return c.OnSceneTicks - c.ArrivalTicks
}

func (c Call) String() string {
	return fmt.Sprintf("Call: (ID: %s, State: %s, Priority: %s, Origin: %s, ArrivalTicks: %d)",
		c.ID, c.State, c.Priority, c.Origin, c.ArrivalTicks)
}
