// Synthetic workload generation: call arrivals as a Poisson process over a
// set of origins and call types. Used by the generate command and by
// Monte-Carlo policy sweeps; replayed CSV logs bypass this entirely.

package sim

import (
	"fmt"
	"math/rand"
)

// ArrivalSampler generates inter-arrival times for the call stream.
// Always returns a positive value (>= 1).
type ArrivalSampler interface {
	SampleIAT(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed inter-arrival ticks.
type PoissonSampler struct {
	ratePerTick float64
}

// NewPoissonSampler builds a sampler for the given arrival rate in calls per
// tick. Rate must be positive.
func NewPoissonSampler(ratePerTick float64) (*PoissonSampler, error) {
	if ratePerTick <= 0 {
		return nil, fmt.Errorf("arrival rate must be positive, got %v: %w", ratePerTick, ErrInput)
	}
	return &PoissonSampler{ratePerTick: ratePerTick}, nil
}

func (s *PoissonSampler) SampleIAT(rng *rand.Rand) int64 {
	iat := int64(rng.ExpFloat64() / s.ratePerTick)
	if iat < 1 {
		return 1
	}
	return iat
}

// CallGenerator produces synthetic CallRecords: Poisson arrivals, uniform
// origin and call-type choice. Origins and CallTypes must be non-empty and
// are sampled by index, so their order matters for reproducibility.
type CallGenerator struct {
	Sampler   ArrivalSampler
	Origins   []LocationID
	CallTypes []string
}

// Generate emits up to maxCalls records with arrivals below horizon (horizon
// 0 means unbounded). IDs are "gen-0001" style, dense and sorted by arrival.
func (g *CallGenerator) Generate(rng *rand.Rand, maxCalls int, horizon int64) ([]CallRecord, error) {
	if len(g.Origins) == 0 || len(g.CallTypes) == 0 {
		return nil, fmt.Errorf("call generator needs origins and call types: %w", ErrInput)
	}
	if maxCalls < 0 {
		return nil, fmt.Errorf("call count must be non-negative, got %d: %w", maxCalls, ErrInput)
	}
	records := make([]CallRecord, 0, maxCalls)
	currentTime := int64(0)
	for i := 0; i < maxCalls; i++ {
		currentTime += g.Sampler.SampleIAT(rng)
		if horizon > 0 && currentTime > horizon {
			break
		}
		records = append(records, CallRecord{
			ID:           CallID(fmt.Sprintf("gen-%04d", i+1)),
			ArrivalTicks: currentTime,
			Origin:       g.Origins[rng.Intn(len(g.Origins))],
			CallType:     g.CallTypes[rng.Intn(len(g.CallTypes))],
		})
	}
	return records, nil
}
