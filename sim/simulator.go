// sim/simulator.go
package sim

import (
	"container/heap"
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/dispatch-sim/dispatch-sim/sim/trace"
)

// EventQueue implements heap.Interface and orders events by timestamp, then
// event-kind priority, then schedule sequence, giving every run a strict
// reproducible processing order for equal-time events.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	ei, ej := eq[i], eq[j]
	if ei.Timestamp() != ej.Timestamp() {
		return ei.Timestamp() < ej.Timestamp()
	}
	pi, pj := eventKindPriority[ei.Kind()], eventKindPriority[ej.Kind()]
	if pi != pj {
		return pi < pj
	}
	return ei.sequence() < ej.sequence()
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, system state, and
// the event loop. All state is scoped to one run; independent runs own
// independent Simulators and may execute in parallel.
type Simulator struct {
	Clock   int64
	Horizon int64
	// EventQueue has all the simulator events, like arrivals and departures
	EventQueue EventQueue
	Network    *Network
	Resolver   Resolver
	Fleet      *FleetRegistry
	// Queue holds Pending calls awaiting assignment
	Queue  *CallQueue
	Policy DispatchPolicy
	// Calls indexes every call of the run, terminal or not
	Calls     map[CallID]*Call
	callOrder []CallID
	Metrics   *Metrics
	Log       *trace.Log
	RNG       *PartitionedRNG

	cfg     Config
	nextSeq uint64
	logSeq  uint64
	// sweepScheduled coalesces dispatch sweeps: at most one is outstanding,
	// mirroring the arrival/step interplay of the event loop.
	sweepScheduled bool
}

// NewSimulator validates the inputs and builds a ready-to-run engine.
// Validation is all-or-nothing: any malformed record fails the constructor
// and no partial state survives.
func NewSimulator(cfg Config, in Inputs) (*Simulator, error) {
	if cfg.CostTickScale <= 0 {
		return nil, fmt.Errorf("cost tick scale must be positive, got %d: %w", cfg.CostTickScale, ErrInput)
	}
	if !IsValidPolicy(cfg.Policy) {
		return nil, fmt.Errorf("unknown dispatch policy %q: %w", cfg.Policy, ErrInput)
	}

	network, err := NewNetwork(in.Edges)
	if err != nil {
		return nil, err
	}
	// Staging bases participate in the node set even when no edge
	// references them.
	for _, rec := range in.Ambulances {
		network.AddLocation(rec.Base)
	}

	resolver, err := NewResolver(cfg.Pathfinder, network)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		Horizon:    cfg.Horizon,
		EventQueue: make(EventQueue, 0),
		Network:    network,
		Resolver:   resolver,
		Fleet:      NewFleetRegistry(resolver),
		Queue:      NewCallQueue(),
		Policy:     NewPolicy(cfg.Policy, cfg.PolicyConfig),
		Calls:      make(map[CallID]*Call),
		Metrics:    NewMetrics(),
		Log:        trace.NewLog(),
		RNG:        NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		cfg:        cfg,
	}

	for _, rec := range in.Ambulances {
		if err := s.Fleet.Register(rec); err != nil {
			return nil, err
		}
	}

	for _, rec := range in.Calls {
		if err := s.InjectCall(rec, in.Priorities); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// InjectCall creates a Pending call from rec and schedules its arrival.
// Exposed so tests and generators can feed calls without going through
// NewSimulator's batch path.
func (sim *Simulator) InjectCall(rec CallRecord, priorities map[string]int) error {
	if _, ok := sim.Calls[rec.ID]; ok {
		return fmt.Errorf("duplicate call %q: %w", rec.ID, ErrInput)
	}
	if !sim.Network.Contains(rec.Origin) {
		return fmt.Errorf("call %s at %q: %w", rec.ID, rec.Origin, ErrUnknownLocation)
	}
	if rec.ArrivalTicks < 0 {
		return fmt.Errorf("call %s arrives at %d: %w", rec.ID, rec.ArrivalTicks, ErrInput)
	}

	priority := PriorityLow
	if code, ok := priorities[rec.CallType]; ok {
		priority = PriorityFromCode(code)
	} else {
		logrus.Warnf("call %s has unmapped type %q, defaulting to low priority", rec.ID, rec.CallType)
	}

	c := NewCall(rec, priority)
	sim.Calls[rec.ID] = c
	sim.callOrder = append(sim.callOrder, rec.ID)
	sim.Schedule(NewCallArrivalEvent(rec.ArrivalTicks, c))
	return nil
}

// Schedule pushes an event into the simulator's EventQueue, stamping it with
// the next sequence number for deterministic same-tick ordering.
func (sim *Simulator) Schedule(ev Event) {
	ev.setSequence(sim.nextSeq)
	sim.nextSeq++
	heap.Push(&sim.EventQueue, ev)
}

// Run drives the event loop until the heap drains, the horizon is exceeded,
// or ctx is cancelled. Cancellation is whole-run: it is checked between
// events, never mid-event. A fatal error aborts the run immediately.
func (sim *Simulator) Run(ctx context.Context) error {
	for len(sim.EventQueue) > 0 {
		if err := ctx.Err(); err != nil {
			sim.finish()
			return fmt.Errorf("run aborted at %d ticks: %w", sim.Clock, err)
		}
		// get the next event to be simulated
		ev := heap.Pop(&sim.EventQueue).(Event)
		// end the simulation if the horizon is reached
		if sim.Horizon > 0 && ev.Timestamp() > sim.Horizon {
			sim.Clock = sim.Horizon
			break
		}
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
		// process the event
		if err := ev.Execute(sim); err != nil {
			sim.finish()
			return fmt.Errorf("event %s at %d ticks: %w", ev.Kind(), sim.Clock, err)
		}
	}
	sim.finish()
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
	return nil
}

// finish freezes end-of-run accounting: the end tick and the busy time of
// every unit, including units caught mid-cycle at truncation.
func (sim *Simulator) finish() {
	sim.Metrics.SimEndedTicks = sim.Clock
	for _, unit := range sim.Fleet.Units() {
		sim.Metrics.BusyTicks[unit.ID] = unit.BusyTicks(sim.Clock)
	}
}

// CheckComplete verifies that every call reached a terminal state. A
// non-empty error means the run is incomplete (truncated horizon, stranded
// calls with no reachable unit, or cancellation).
func (sim *Simulator) CheckComplete() error {
	var stranded []string
	for _, id := range sim.callOrder {
		if !sim.Calls[id].Terminal() {
			stranded = append(stranded, string(id))
		}
	}
	if len(stranded) == 0 {
		return nil
	}
	sort.Strings(stranded)
	return fmt.Errorf("run incomplete: %d call(s) not terminal: %v", len(stranded), stranded)
}

// record appends one event record to the run log in processing order.
func (sim *Simulator) record(kind EventKind, callID CallID, unit AmbulanceID, detail string) {
	sim.Log.Append(trace.Record{
		Seq:         sim.logSeq,
		Ticks:       sim.Clock,
		Kind:        string(kind),
		CallID:      string(callID),
		AmbulanceID: string(unit),
		Detail:      detail,
	})
	sim.logSeq++
}

// scheduleSweep requests a dispatch sweep at the current tick, coalescing
// duplicate requests.
func (sim *Simulator) scheduleSweep() {
	if sim.sweepScheduled {
		return
	}
	sim.sweepScheduled = true
	sim.Schedule(NewDispatchSweepEvent(sim.Clock))
}

func (sim *Simulator) handleCallArrival(e *CallArrivalEvent) error {
	sim.Queue.Enqueue(e.Call)
	sim.record(EventCallArrival, e.Call.ID, "", e.Call.Priority.String())
	if sim.cfg.Queue.AbandonAfterTicks > 0 {
		sim.Schedule(NewAbandonCheckEvent(e.Call.ArrivalTicks+sim.cfg.Queue.AbandonAfterTicks, e.Call.ID))
	}
	sim.scheduleSweep()
	return nil
}

func (sim *Simulator) handleDispatchSweep(_ *DispatchSweepEvent) error {
	sim.sweepScheduled = false
	sim.Metrics.Sweeps++

	for _, call := range sim.Queue.Pending() {
		candidates, err := sim.Fleet.AvailableNear(call.Origin)
		if err != nil {
			return err
		}
		dctx := DispatchContext{
			Clock:         sim.Clock,
			PendingUrgent: sim.Queue.PendingAtOrAbove(sim.cfg.PolicyConfig.ReserveThreshold),
			IdleUnits:     sim.Fleet.IdleCount(),
		}
		unitID, ok := sim.Policy.Select(call, candidates, dctx)
		if !ok {
			continue
		}
		if err := sim.assign(call, unitID); err != nil {
			return err
		}
	}
	return nil
}

// assign pairs call with the policy's chosen unit. An ineligible choice is a
// recoverable PolicyRejection: the call stays Pending and the sweep moves on.
func (sim *Simulator) assign(call *Call, unitID AmbulanceID) error {
	unit, err := sim.Fleet.Get(unitID)
	if err != nil {
		sim.rejectPolicyChoice(call, unitID, "unknown ambulance")
		return nil
	}
	if unit.State != AmbulanceIdle {
		sim.rejectPolicyChoice(call, unitID, fmt.Sprintf("ambulance is %s", unit.State))
		return nil
	}
	cost, err := sim.Resolver.TravelCost(unit.Location, call.Origin)
	if err != nil {
		return err
	}
	if !Reachable(cost) {
		sim.rejectPolicyChoice(call, unitID, "no route to scene")
		return nil
	}

	if err := sim.Fleet.MarkDispatched(unitID, call.ID, sim.Clock); err != nil {
		return err
	}
	if err := call.transition(CallAssigned); err != nil {
		return err
	}
	call.Assigned = unitID
	call.AssignedTicks = sim.Clock
	sim.Queue.DequeueAssigned(call.ID)

	wait := sim.Clock - call.ArrivalTicks
	sim.Metrics.WaitTicks[call.ID] = wait
	sim.Metrics.WaitSum += wait

	travelTicks := sim.cfg.TicksFor(cost)
	sim.record(EventAssignmentMade, call.ID, unitID, fmt.Sprintf("travel_ticks=%d", travelTicks))
	sim.Log.AppendDispatch(trace.DispatchRow{
		CallID:            string(call.ID),
		CallType:          call.CallType,
		CallLocation:      string(call.Origin),
		SelectedAmbulance: string(unitID),
		TravelCost:        cost,
	})
	logrus.Infof("[tick %07d] call %s -> ambulance %s (travel %d ticks)", sim.Clock, call.ID, unitID, travelTicks)

	sim.Schedule(NewDepartureEvent(sim.Clock, call.ID, unitID, travelTicks))
	return nil
}

func (sim *Simulator) rejectPolicyChoice(call *Call, unitID AmbulanceID, reason string) {
	sim.Metrics.Rejections++
	sim.record(EventPolicyRejected, call.ID, unitID, reason)
	logrus.Warnf("[tick %07d] policy rejected for call %s: ambulance %s: %s (%v)",
		sim.Clock, call.ID, unitID, reason, ErrPolicyRejected)
}

func (sim *Simulator) handleDeparture(e *DepartureEvent) error {
	call, err := sim.callByID(e.CallID)
	if err != nil {
		return err
	}
	if err := call.transition(CallEnRoute); err != nil {
		return err
	}
	if err := sim.Fleet.MarkEnRoute(e.AmbulanceID); err != nil {
		return err
	}
	sim.record(EventDeparture, e.CallID, e.AmbulanceID, "")
	sim.Schedule(NewSceneArrivalEvent(sim.Clock+e.TravelTicks, e.CallID, e.AmbulanceID))
	return nil
}

func (sim *Simulator) handleSceneArrival(e *SceneArrivalEvent) error {
	call, err := sim.callByID(e.CallID)
	if err != nil {
		return err
	}
	if err := call.transition(CallOnScene); err != nil {
		return err
	}
	call.OnSceneTicks = sim.Clock
	if err := sim.Fleet.MarkOnScene(e.AmbulanceID, call.Origin); err != nil {
		return err
	}

	response := call.ResponseTicks()
	sim.Metrics.ResponseTicks[call.ID] = response
	sim.Metrics.ResponseSum += response
	sim.record(EventSceneArrival, e.CallID, e.AmbulanceID, fmt.Sprintf("response_ticks=%d", response))

	service := sim.cfg.Service.OnSceneTicks
	if jitter := sim.cfg.Service.OnSceneJitterTicks; jitter > 0 {
		service += sim.RNG.ForSubsystem(SubsystemService).Int63n(jitter + 1)
	}
	sim.Schedule(NewServiceCompleteEvent(sim.Clock+service, e.CallID, e.AmbulanceID))
	return nil
}

func (sim *Simulator) handleServiceComplete(e *ServiceCompleteEvent) error {
	call, err := sim.callByID(e.CallID)
	if err != nil {
		return err
	}
	if err := call.transition(CallCompleted); err != nil {
		return err
	}
	call.CompletedTicks = sim.Clock
	sim.Metrics.CompletedCalls++

	unit, err := sim.Fleet.Get(e.AmbulanceID)
	if err != nil {
		return err
	}
	if err := sim.Fleet.MarkReturning(e.AmbulanceID); err != nil {
		return err
	}
	sim.record(EventServiceComplete, e.CallID, e.AmbulanceID, "")

	cost, err := sim.Resolver.TravelCost(unit.Location, unit.Base)
	if err != nil {
		return err
	}
	if !Reachable(cost) {
		// The unit cannot get home on this directed network. It stays
		// Returning and counts as busy through run end.
		logrus.Warnf("[tick %07d] ambulance %s has no route home from %s", sim.Clock, unit.ID, unit.Location)
		return nil
	}
	sim.Schedule(NewReturnCompleteEvent(sim.Clock+sim.cfg.TicksFor(cost), e.AmbulanceID))
	return nil
}

func (sim *Simulator) handleReturnComplete(e *ReturnCompleteEvent) error {
	unit, err := sim.Fleet.Get(e.AmbulanceID)
	if err != nil {
		return err
	}
	if err := sim.Fleet.MarkReturned(e.AmbulanceID, unit.Base, sim.Clock); err != nil {
		return err
	}
	sim.record(EventReturnComplete, "", e.AmbulanceID, "")
	// A freed unit may unblock the queue.
	if sim.Queue.Len() > 0 {
		sim.scheduleSweep()
	}
	return nil
}

func (sim *Simulator) handleAbandonCheck(e *AbandonCheckEvent) error {
	call, err := sim.callByID(e.CallID)
	if err != nil {
		return err
	}
	if call.State != CallPending {
		return nil
	}
	sim.Queue.DequeueAssigned(call.ID)
	if err := call.transition(CallAbandoned); err != nil {
		return err
	}
	sim.Metrics.AbandonedCalls++
	sim.record(EventAbandoned, call.ID, "", fmt.Sprintf("waited_ticks=%d", sim.Clock-call.ArrivalTicks))
	logrus.Warnf("[tick %07d] call %s abandoned after %d ticks", sim.Clock, call.ID, sim.Clock-call.ArrivalTicks)
	return nil
}

// callByID resolves a call reference carried by an event. A miss is a fatal
// run-level failure: events only carry IDs the engine itself issued.
func (sim *Simulator) callByID(id CallID) (*Call, error) {
	call, ok := sim.Calls[id]
	if !ok {
		return nil, fmt.Errorf("event references unknown call %q: %w", id, ErrInput)
	}
	return call, nil
}
