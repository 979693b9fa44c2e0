package sim

import "github.com/sirupsen/logrus"

// EventKind discriminates the simulation event types.
type EventKind string

const (
	EventCallArrival     EventKind = "CallArrival"
	EventReturnComplete  EventKind = "ReturnComplete"
	EventDispatchSweep   EventKind = "DispatchSweep"
	EventAssignmentMade  EventKind = "AssignmentMade"
	EventPolicyRejected  EventKind = "PolicyRejected"
	EventDeparture       EventKind = "Departure"
	EventSceneArrival    EventKind = "SceneArrival"
	EventServiceComplete EventKind = "ServiceComplete"
	EventAbandonCheck    EventKind = "AbandonCheck"
	EventAbandoned       EventKind = "Abandoned"
)

// eventKindPriority orders simultaneous events: units return to service
// before the sweep runs, the sweep runs before its own departures fire, and
// abandon checks go last so a same-tick assignment rescues the call.
var eventKindPriority = map[EventKind]int{
	EventCallArrival:     1,
	EventReturnComplete:  2,
	EventDispatchSweep:   3,
	EventDeparture:       4,
	EventSceneArrival:    5,
	EventServiceComplete: 6,
	EventAbandonCheck:    7,
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in ticks) and an Execute method that advances
// simulation state when invoked. The sequence number is assigned by the
// owning Simulator at Schedule time, keeping parallel runs reproducible.
type Event interface {
	Timestamp() int64
	Kind() EventKind
	Execute(*Simulator) error
	sequence() uint64
	setSequence(uint64)
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	time int64
	kind EventKind
	seq  uint64
}

func newBaseEvent(time int64, kind EventKind) BaseEvent {
	return BaseEvent{time: time, kind: kind}
}

func (e *BaseEvent) Timestamp() int64     { return e.time }
func (e *BaseEvent) Kind() EventKind      { return e.kind }
func (e *BaseEvent) sequence() uint64     { return e.seq }
func (e *BaseEvent) setSequence(s uint64) { e.seq = s }

// CallArrivalEvent represents a new call reaching the service.
type CallArrivalEvent struct {
	BaseEvent
	Call *Call
}

func NewCallArrivalEvent(time int64, c *Call) *CallArrivalEvent {
	return &CallArrivalEvent{BaseEvent: newBaseEvent(time, EventCallArrival), Call: c}
}

func (e *CallArrivalEvent) Execute(sim *Simulator) error {
	logrus.Infof("<< Arrival: call %s at %d ticks", e.Call.ID, e.time)
	return sim.handleCallArrival(e)
}

// DispatchSweepEvent walks the pending queue and asks the policy for an
// assignment per call. At most one sweep is outstanding at a time.
type DispatchSweepEvent struct {
	BaseEvent
}

func NewDispatchSweepEvent(time int64) *DispatchSweepEvent {
	return &DispatchSweepEvent{BaseEvent: newBaseEvent(time, EventDispatchSweep)}
}

func (e *DispatchSweepEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< DispatchSweep at %d ticks", e.time)
	return sim.handleDispatchSweep(e)
}

// DepartureEvent marks the assigned unit leaving its station.
type DepartureEvent struct {
	BaseEvent
	CallID      CallID
	AmbulanceID AmbulanceID
	TravelTicks int64
}

func NewDepartureEvent(time int64, callID CallID, unit AmbulanceID, travelTicks int64) *DepartureEvent {
	return &DepartureEvent{
		BaseEvent:   newBaseEvent(time, EventDeparture),
		CallID:      callID,
		AmbulanceID: unit,
		TravelTicks: travelTicks,
	}
}

func (e *DepartureEvent) Execute(sim *Simulator) error {
	return sim.handleDeparture(e)
}

// SceneArrivalEvent marks the unit reaching the call origin.
type SceneArrivalEvent struct {
	BaseEvent
	CallID      CallID
	AmbulanceID AmbulanceID
}

func NewSceneArrivalEvent(time int64, callID CallID, unit AmbulanceID) *SceneArrivalEvent {
	return &SceneArrivalEvent{
		BaseEvent:   newBaseEvent(time, EventSceneArrival),
		CallID:      callID,
		AmbulanceID: unit,
	}
}

func (e *SceneArrivalEvent) Execute(sim *Simulator) error {
	return sim.handleSceneArrival(e)
}

// ServiceCompleteEvent marks on-scene service finishing; the call completes
// and the unit starts its return leg.
type ServiceCompleteEvent struct {
	BaseEvent
	CallID      CallID
	AmbulanceID AmbulanceID
}

func NewServiceCompleteEvent(time int64, callID CallID, unit AmbulanceID) *ServiceCompleteEvent {
	return &ServiceCompleteEvent{
		BaseEvent:   newBaseEvent(time, EventServiceComplete),
		CallID:      callID,
		AmbulanceID: unit,
	}
}

func (e *ServiceCompleteEvent) Execute(sim *Simulator) error {
	return sim.handleServiceComplete(e)
}

// ReturnCompleteEvent marks the unit back at base and Idle.
type ReturnCompleteEvent struct {
	BaseEvent
	AmbulanceID AmbulanceID
}

func NewReturnCompleteEvent(time int64, unit AmbulanceID) *ReturnCompleteEvent {
	return &ReturnCompleteEvent{BaseEvent: newBaseEvent(time, EventReturnComplete), AmbulanceID: unit}
}

func (e *ReturnCompleteEvent) Execute(sim *Simulator) error {
	return sim.handleReturnComplete(e)
}

// AbandonCheckEvent ages out a call still Pending past the configured wait
// threshold.
type AbandonCheckEvent struct {
	BaseEvent
	CallID CallID
}

func NewAbandonCheckEvent(time int64, callID CallID) *AbandonCheckEvent {
	return &AbandonCheckEvent{BaseEvent: newBaseEvent(time, EventAbandonCheck), CallID: callID}
}

func (e *AbandonCheckEvent) Execute(sim *Simulator) error {
	return sim.handleAbandonCheck(e)
}
