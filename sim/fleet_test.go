package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testFleet(t *testing.T, units ...AmbulanceRecord) *FleetRegistry {
	t.Helper()
	n, err := NewNetwork(lineEdges())
	if err != nil {
		t.Fatalf("NewNetwork: %v", err)
	}
	r, err := NewResolver(ResolverDijkstra, n)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	f := NewFleetRegistry(r)
	for _, u := range units {
		if err := f.Register(u); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	return f
}

func TestFleetRegistry_RegisterDuplicate(t *testing.T) {
	f := testFleet(t, AmbulanceRecord{ID: "amb1", Base: "Base"})
	err := f.Register(AmbulanceRecord{ID: "amb1", Base: "Scene"})
	assert.ErrorIs(t, err, ErrInput)
	assert.Equal(t, 1, f.Len())
}

func TestFleetRegistry_GetUnknown(t *testing.T) {
	f := testFleet(t)
	_, err := f.Get("ghost")
	assert.ErrorIs(t, err, ErrUnknownAmbulance)
}

func TestFleetRegistry_AvailableNearOrdering(t *testing.T) {
	// GIVEN two Idle units at different distances from the scene
	f := testFleet(t,
		AmbulanceRecord{ID: "far", Base: "Base"},
		AmbulanceRecord{ID: "close", Base: "Scene"},
	)

	// WHEN availability is queried for Scene
	got, err := f.AvailableNear("Scene")
	assert.NoError(t, err)

	// THEN the unit already at the scene sorts first
	assert.Len(t, got, 2)
	assert.Equal(t, AmbulanceID("close"), got[0].ID)
	assert.Equal(t, 0.0, got[0].TravelCost)
	assert.Equal(t, AmbulanceID("far"), got[1].ID)
	assert.Equal(t, 5.0, got[1].TravelCost)
}

func TestFleetRegistry_AvailableNearTieBreakByID(t *testing.T) {
	// GIVEN two units at the same base
	f := testFleet(t,
		AmbulanceRecord{ID: "beta", Base: "Base"},
		AmbulanceRecord{ID: "alpha", Base: "Base"},
	)

	got, err := f.AvailableNear("Scene")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, AmbulanceID("alpha"), got[0].ID)
	assert.Equal(t, AmbulanceID("beta"), got[1].ID)
}

func TestFleetRegistry_AvailableNearExcludesBusyAndUnreachable(t *testing.T) {
	f := testFleet(t,
		AmbulanceRecord{ID: "busy", Base: "Base"},
		AmbulanceRecord{ID: "stranded", Base: "Near"}, // Near has no outgoing edges
		AmbulanceRecord{ID: "free", Base: "Scene"},
	)
	assert.NoError(t, f.MarkDispatched("busy", "c1", 0))

	got, err := f.AvailableNear("Base")
	assert.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, AmbulanceID("free"), got[0].ID)
}

func TestFleetRegistry_FullCycle(t *testing.T) {
	// GIVEN one Idle unit
	f := testFleet(t, AmbulanceRecord{ID: "amb1", Base: "Base"})

	// WHEN it runs a complete dispatch cycle
	assert.NoError(t, f.MarkDispatched("amb1", "c1", 10))
	assert.NoError(t, f.MarkEnRoute("amb1"))
	assert.NoError(t, f.MarkOnScene("amb1", "Scene"))
	assert.NoError(t, f.MarkReturning("amb1"))
	assert.NoError(t, f.MarkReturned("amb1", "Base", 40))

	// THEN it is Idle at base with the busy interval recorded
	a, err := f.Get("amb1")
	assert.NoError(t, err)
	assert.Equal(t, AmbulanceIdle, a.State)
	assert.Equal(t, LocationID("Base"), a.Location)
	assert.Equal(t, CallID(""), a.Call)
	assert.Equal(t, int64(30), a.BusyTicks(100))
	assert.Equal(t, 1, f.IdleCount())
}

func TestFleetRegistry_InvalidTransitions(t *testing.T) {
	f := testFleet(t, AmbulanceRecord{ID: "amb1", Base: "Base"})

	// Idle unit cannot depart, arrive or return
	assert.ErrorIs(t, f.MarkEnRoute("amb1"), ErrInvalidTransition)
	assert.ErrorIs(t, f.MarkOnScene("amb1", "Scene"), ErrInvalidTransition)
	assert.ErrorIs(t, f.MarkReturning("amb1"), ErrInvalidTransition)

	// Dispatched unit cannot be dispatched again
	assert.NoError(t, f.MarkDispatched("amb1", "c1", 0))
	assert.ErrorIs(t, f.MarkDispatched("amb1", "c2", 0), ErrInvalidTransition)
}

func TestAmbulance_BusyTicksMidCycle(t *testing.T) {
	// GIVEN a unit dispatched at t=10 and never returned
	f := testFleet(t, AmbulanceRecord{ID: "amb1", Base: "Base"})
	assert.NoError(t, f.MarkDispatched("amb1", "c1", 10))

	a, err := f.Get("amb1")
	assert.NoError(t, err)

	// THEN it counts as busy from dispatch through run end
	assert.Equal(t, int64(90), a.BusyTicks(100))
}
