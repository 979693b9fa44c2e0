// Tracks simulation-wide and per-call performance metrics such as:
// response times, wait times, abandonment counts and fleet utilization.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating policy performance
// and debugging behavior over time.
type Metrics struct {
	CompletedCalls int // Number of calls served to completion
	AbandonedCalls int // Number of calls that aged out while Pending
	Sweeps         int // Number of dispatch sweeps executed
	Rejections     int // Number of recoverable policy rejections

	ResponseSum int64 // Sum of arrival -> on-scene latencies (in ticks)
	WaitSum     int64 // Sum of arrival -> assignment waits (in ticks)

	ResponseTicks map[CallID]int64 // map of call ID -> response time
	WaitTicks     map[CallID]int64 // map of call ID -> assignment wait

	BusyTicks map[AmbulanceID]int64 // map of unit ID -> busy time

	SimEndedTicks int64 // clock value when the run ended
}

// NewMetrics creates zeroed metrics for one run.
func NewMetrics() *Metrics {
	return &Metrics{
		ResponseTicks: make(map[CallID]int64),
		WaitTicks:     make(map[CallID]int64),
		BusyTicks:     make(map[AmbulanceID]int64),
	}
}

// Summary is the end-of-run aggregate view exposed to reporters.
type Summary struct {
	CompletedCalls int     `yaml:"completed_calls"`
	AbandonedCalls int     `yaml:"abandoned_calls"`
	Rejections     int     `yaml:"policy_rejections"`
	MeanResponse   float64 `yaml:"mean_response_ticks"`
	P50Response    float64 `yaml:"p50_response_ticks"`
	P90Response    float64 `yaml:"p90_response_ticks"`
	P99Response    float64 `yaml:"p99_response_ticks"`
	MeanWait       float64 `yaml:"mean_wait_ticks"`
	// MeanUtilization is busy time / run duration averaged over the fleet.
	MeanUtilization float64            `yaml:"mean_utilization"`
	Utilization     map[string]float64 `yaml:"utilization"`
	SimEndedTicks   int64              `yaml:"sim_ended_ticks"`
}

// Summarize computes the aggregate view. Quantiles are empirical over the
// per-call response times; utilization divides each unit's busy ticks by the
// run duration.
func (m *Metrics) Summarize() Summary {
	s := Summary{
		CompletedCalls: m.CompletedCalls,
		AbandonedCalls: m.AbandonedCalls,
		Rejections:     m.Rejections,
		Utilization:    make(map[string]float64),
		SimEndedTicks:  m.SimEndedTicks,
	}

	if len(m.ResponseTicks) > 0 {
		responses := make([]float64, 0, len(m.ResponseTicks))
		for _, rt := range m.ResponseTicks {
			responses = append(responses, float64(rt))
		}
		sort.Float64s(responses)
		s.MeanResponse = stat.Mean(responses, nil)
		s.P50Response = stat.Quantile(0.50, stat.Empirical, responses, nil)
		s.P90Response = stat.Quantile(0.90, stat.Empirical, responses, nil)
		s.P99Response = stat.Quantile(0.99, stat.Empirical, responses, nil)
	}
	if len(m.WaitTicks) > 0 {
		s.MeanWait = float64(m.WaitSum) / float64(len(m.WaitTicks))
	}

	if m.SimEndedTicks > 0 && len(m.BusyTicks) > 0 {
		// Sum in unit ID order so repeated summaries of the same run agree
		// bit-for-bit.
		ids := make([]string, 0, len(m.BusyTicks))
		for id := range m.BusyTicks {
			ids = append(ids, string(id))
		}
		sort.Strings(ids)
		var total float64
		for _, id := range ids {
			u := float64(m.BusyTicks[AmbulanceID(id)]) / float64(m.SimEndedTicks)
			s.Utilization[id] = u
			total += u
		}
		s.MeanUtilization = total / float64(len(ids))
	}
	return s
}

// Print displays aggregated metrics at the end of the simulation.
// Includes response-time distribution, wait times, abandonment and
// fleet utilization.
func (m *Metrics) Print() {
	s := m.Summarize()
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Completed Calls      : %d\n", s.CompletedCalls)
	fmt.Printf("Abandoned Calls      : %d\n", s.AbandonedCalls)
	fmt.Printf("Policy Rejections    : %d\n", s.Rejections)
	if s.CompletedCalls > 0 {
		fmt.Printf("Average Response     : %.2f ticks\n", s.MeanResponse)
		fmt.Printf("P50 Response         : %.2f ticks\n", s.P50Response)
		fmt.Printf("P90 Response         : %.2f ticks\n", s.P90Response)
		fmt.Printf("P99 Response         : %.2f ticks\n", s.P99Response)
		fmt.Printf("Average Wait         : %.2f ticks\n", s.MeanWait)
	}
	fmt.Printf("Fleet Utilization    : %.2f%%\n", 100*s.MeanUtilization)
	fmt.Printf("Sim Ended            : %d ticks\n", s.SimEndedTicks)
}
