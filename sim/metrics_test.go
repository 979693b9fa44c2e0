package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_SummarizeEmpty(t *testing.T) {
	// GIVEN a run that served nothing
	s := NewMetrics().Summarize()

	// THEN every aggregate is zero and nothing divides by zero
	assert.Equal(t, 0, s.CompletedCalls)
	assert.Equal(t, 0, s.AbandonedCalls)
	assert.Equal(t, 0.0, s.MeanResponse)
	assert.Equal(t, 0.0, s.MeanWait)
	assert.Equal(t, 0.0, s.MeanUtilization)
	assert.Empty(t, s.Utilization)
}

func TestMetrics_SummarizeResponses(t *testing.T) {
	// GIVEN three completed calls with responses 10, 20, 30
	m := NewMetrics()
	m.CompletedCalls = 3
	m.ResponseTicks = map[CallID]int64{"a": 10, "b": 20, "c": 30}
	m.ResponseSum = 60
	m.WaitTicks = map[CallID]int64{"a": 0, "b": 5, "c": 10}
	m.WaitSum = 15

	s := m.Summarize()

	assert.Equal(t, 3, s.CompletedCalls)
	assert.InDelta(t, 20.0, s.MeanResponse, 1e-9)
	assert.InDelta(t, 5.0, s.MeanWait, 1e-9)
	// empirical quantiles over {10, 20, 30}
	assert.Equal(t, 20.0, s.P50Response)
	assert.Equal(t, 30.0, s.P90Response)
	assert.Equal(t, 30.0, s.P99Response)
}

func TestMetrics_SummarizeRepeatableUtilization(t *testing.T) {
	// GIVEN enough units that float summation order would show through
	m := NewMetrics()
	m.SimEndedTicks = 7
	for i, id := range []AmbulanceID{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		m.BusyTicks[id] = int64(i + 1)
	}

	// THEN repeated summaries of the same state agree bit-for-bit
	want := m.Summarize().MeanUtilization
	for i := 0; i < 2000; i++ {
		assert.Equal(t, want, m.Summarize().MeanUtilization, "summary diverged at call %d", i)
	}
}

func TestMetrics_SummarizeUtilization(t *testing.T) {
	// GIVEN two units busy 50 and 100 ticks over a 200-tick run
	m := NewMetrics()
	m.SimEndedTicks = 200
	m.BusyTicks = map[AmbulanceID]int64{"amb1": 50, "amb2": 100}

	s := m.Summarize()

	assert.InDelta(t, 0.25, s.Utilization["amb1"], 1e-9)
	assert.InDelta(t, 0.50, s.Utilization["amb2"], 1e-9)
	assert.InDelta(t, 0.375, s.MeanUtilization, 1e-9)
	assert.Equal(t, int64(200), s.SimEndedTicks)
}
