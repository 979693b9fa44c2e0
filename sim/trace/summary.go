package trace

// LogSummary aggregates per-kind counts from an event log.
type LogSummary struct {
	TotalEvents      int
	Arrivals         int
	Assignments      int
	Rejections       int
	Completions      int
	Abandonments     int
	UniqueAmbulances int
	KindCounts       map[string]int // event kind → count
}

// Summarize computes aggregate statistics from a Log.
// Safe for nil or empty logs (returns zero-value fields).
func Summarize(l *Log) *LogSummary {
	summary := &LogSummary{
		KindCounts: make(map[string]int),
	}
	if l == nil {
		return summary
	}

	units := make(map[string]bool)
	summary.TotalEvents = len(l.records)
	for _, r := range l.records {
		summary.KindCounts[r.Kind]++
		if r.AmbulanceID != "" {
			units[r.AmbulanceID] = true
		}
		switch r.Kind {
		case "CallArrival":
			summary.Arrivals++
		case "AssignmentMade":
			summary.Assignments++
		case "PolicyRejected":
			summary.Rejections++
		case "ServiceComplete":
			summary.Completions++
		case "Abandoned":
			summary.Abandonments++
		}
	}
	summary.UniqueAmbulances = len(units)

	return summary
}
