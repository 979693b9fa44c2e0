// Implements the FleetRegistry, which tracks every ambulance's identity,
// location and lifecycle state, and produces deterministic availability
// snapshots for the dispatch policies.

package sim

import (
	"fmt"
	"sort"
)

// Candidate is one Idle unit as seen by a dispatch policy, with its travel
// cost to the call origin already resolved.
type Candidate struct {
	ID         AmbulanceID
	TravelCost float64
}

// FleetRegistry owns all Ambulance state for one run. It is not safe for
// concurrent use; each run owns its own registry.
type FleetRegistry struct {
	units    map[AmbulanceID]*Ambulance
	order    []AmbulanceID // registration-independent deterministic iteration
	resolver Resolver
}

// NewFleetRegistry creates an empty registry resolving travel costs through
// resolver.
func NewFleetRegistry(resolver Resolver) *FleetRegistry {
	return &FleetRegistry{
		units:    make(map[AmbulanceID]*Ambulance),
		resolver: resolver,
	}
}

// Register adds a unit at its staging base, Idle. Duplicate IDs fail with
// ErrInput.
func (f *FleetRegistry) Register(rec AmbulanceRecord) error {
	if _, ok := f.units[rec.ID]; ok {
		return fmt.Errorf("duplicate ambulance %q: %w", rec.ID, ErrInput)
	}
	f.units[rec.ID] = &Ambulance{
		ID:       rec.ID,
		Base:     rec.Base,
		Location: rec.Base,
		State:    AmbulanceIdle,
	}
	f.order = append(f.order, rec.ID)
	sort.Slice(f.order, func(i, j int) bool { return f.order[i] < f.order[j] })
	return nil
}

// Get returns the unit for id, or ErrUnknownAmbulance.
func (f *FleetRegistry) Get(id AmbulanceID) (*Ambulance, error) {
	a, ok := f.units[id]
	if !ok {
		return nil, fmt.Errorf("ambulance %q: %w", id, ErrUnknownAmbulance)
	}
	return a, nil
}

// Len returns fleet size.
func (f *FleetRegistry) Len() int {
	return len(f.units)
}

// IdleCount returns the number of Idle units.
func (f *FleetRegistry) IdleCount() int {
	count := 0
	for _, id := range f.order {
		if f.units[id].State == AmbulanceIdle {
			count++
		}
	}
	return count
}

// AvailableNear returns the Idle units that can reach loc, ordered by
// ascending travel cost with ties broken by unit ID for determinism.
// Unreachable units are excluded.
func (f *FleetRegistry) AvailableNear(loc LocationID) ([]Candidate, error) {
	candidates := make([]Candidate, 0, len(f.order))
	for _, id := range f.order {
		a := f.units[id]
		if a.State != AmbulanceIdle {
			continue
		}
		cost, err := f.resolver.TravelCost(a.Location, loc)
		if err != nil {
			return nil, err
		}
		if !Reachable(cost) {
			continue
		}
		candidates = append(candidates, Candidate{ID: id, TravelCost: cost})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].TravelCost != candidates[j].TravelCost {
			return candidates[i].TravelCost < candidates[j].TravelCost
		}
		return candidates[i].ID < candidates[j].ID
	})
	return candidates, nil
}

// MarkDispatched pairs an Idle unit with a call (Idle -> Dispatched) and
// starts its busy clock.
func (f *FleetRegistry) MarkDispatched(id AmbulanceID, callID CallID, now int64) error {
	a, err := f.Get(id)
	if err != nil {
		return err
	}
	if err := a.transition(AmbulanceDispatched); err != nil {
		return err
	}
	a.Call = callID
	a.busySince = now
	return nil
}

// MarkEnRoute records departure toward the scene (Dispatched -> EnRoute).
func (f *FleetRegistry) MarkEnRoute(id AmbulanceID) error {
	a, err := f.Get(id)
	if err != nil {
		return err
	}
	return a.transition(AmbulanceEnRoute)
}

// MarkOnScene records arrival at the call origin (EnRoute -> OnScene).
func (f *FleetRegistry) MarkOnScene(id AmbulanceID, scene LocationID) error {
	a, err := f.Get(id)
	if err != nil {
		return err
	}
	if err := a.transition(AmbulanceOnScene); err != nil {
		return err
	}
	a.Location = scene
	return nil
}

// MarkReturning records service completion (OnScene -> Returning). The unit
// keeps its call reference until it reaches Idle so the one-active-call
// invariant stays checkable mid-return.
func (f *FleetRegistry) MarkReturning(id AmbulanceID) error {
	a, err := f.Get(id)
	if err != nil {
		return err
	}
	return a.transition(AmbulanceReturning)
}

// MarkReturned puts the unit back in service at loc (Returning -> Idle),
// clears its call pairing and closes its busy interval.
func (f *FleetRegistry) MarkReturned(id AmbulanceID, loc LocationID, now int64) error {
	a, err := f.Get(id)
	if err != nil {
		return err
	}
	if err := a.transition(AmbulanceIdle); err != nil {
		return err
	}
	a.Location = loc
	a.Call = ""
	a.busyTicks += now - a.busySince
	return nil
}

// Units returns all units in deterministic ID order.
func (f *FleetRegistry) Units() []*Ambulance {
	out := make([]*Ambulance, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.units[id])
	}
	return out
}
