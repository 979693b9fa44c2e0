package sim

// Identity types
type LocationID string
type AmbulanceID string
type CallID string

// PriorityLevel is the ordered urgency of a call. Larger values are more
// urgent; the zero value is the lowest priority.
type PriorityLevel int

const (
	PriorityLow PriorityLevel = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p PriorityLevel) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// PriorityFromCode maps the numeric codes of the priority table onto
// PriorityLevel. Code 1 is the most urgent, matching the source data where
// the smallest number is served first; codes past 3 collapse to Low.
func PriorityFromCode(code int) PriorityLevel {
	switch code {
	case 1:
		return PriorityCritical
	case 2:
		return PriorityHigh
	case 3:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Input record types. These form the engine's in-memory call contract: an
// external loader produces them, NewSimulator consumes them. No file format
// is mandated here.

// EdgeRecord is one directed weighted road segment.
type EdgeRecord struct {
	From LocationID
	To   LocationID
	Cost float64 // travel time incl. traffic delay, in cost units
}

// AmbulanceRecord declares one unit and its staging location.
type AmbulanceRecord struct {
	ID   AmbulanceID
	Base LocationID
}

// CallRecord is one incoming call from the input log.
type CallRecord struct {
	ID           CallID
	ArrivalTicks int64
	Origin       LocationID
	CallType     string
}

// Inputs bundles everything a run needs, fully loaded before the run starts.
type Inputs struct {
	Edges      []EdgeRecord
	Ambulances []AmbulanceRecord
	Calls      []CallRecord
	// Priorities maps call-type codes to numeric priority codes
	// (1 = most urgent). Call types absent from the map default to Low.
	Priorities map[string]int
}
