package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_SameSeedSameStream(t *testing.T) {
	// GIVEN two RNGs built from the same key
	a := NewPartitionedRNG(NewSimulationKey(42))
	b := NewPartitionedRNG(NewSimulationKey(42))

	// THEN each subsystem produces identical streams
	for _, sub := range []string{SubsystemWorkload, SubsystemService} {
		ra, rb := a.ForSubsystem(sub), b.ForSubsystem(sub)
		for i := 0; i < 100; i++ {
			assert.Equal(t, ra.Int63(), rb.Int63(), "subsystem %s diverged at draw %d", sub, i)
		}
	}
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	// GIVEN one RNG
	p := NewPartitionedRNG(NewSimulationKey(7))

	// WHEN two subsystems draw
	first := p.ForSubsystem(SubsystemWorkload).Int63()
	second := p.ForSubsystem(SubsystemService).Int63()

	// THEN their streams differ (distinct derived seeds)
	assert.NotEqual(t, first, second)
}

func TestPartitionedRNG_CachesInstances(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(1))
	assert.Same(t, p.ForSubsystem(SubsystemService), p.ForSubsystem(SubsystemService))
}

func TestPartitionedRNG_WorkloadUsesMasterSeedDirectly(t *testing.T) {
	// GIVEN the workload subsystem of key 99 and a plain source seeded 99
	p := NewPartitionedRNG(NewSimulationKey(99))
	q := NewPartitionedRNG(NewSimulationKey(99))

	// drawing through a second instance must not perturb the first
	_ = q.ForSubsystem(SubsystemService)

	assert.Equal(t,
		p.ForSubsystem(SubsystemWorkload).Int63(),
		q.ForSubsystem(SubsystemWorkload).Int63())
}

func TestPartitionedRNG_Key(t *testing.T) {
	p := NewPartitionedRNG(NewSimulationKey(5))
	assert.Equal(t, NewSimulationKey(5), p.Key())
}
