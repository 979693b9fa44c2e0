package trace

import "testing"

func TestSummarize_EmptyLog(t *testing.T) {
	// GIVEN an empty log
	s := Summarize(NewLog())

	// THEN all counts are zero
	if s.TotalEvents != 0 {
		t.Errorf("expected 0 total events, got %d", s.TotalEvents)
	}
	if s.Arrivals != 0 || s.Assignments != 0 || s.Abandonments != 0 {
		t.Errorf("expected zero counters, got %+v", s)
	}
	if len(s.KindCounts) != 0 {
		t.Errorf("expected empty kind counts, got %v", s.KindCounts)
	}
}

func TestSummarize_NilLog(t *testing.T) {
	s := Summarize(nil)
	if s == nil {
		t.Fatal("expected non-nil summary for nil log")
	}
	if s.TotalEvents != 0 {
		t.Errorf("expected 0 total events, got %d", s.TotalEvents)
	}
}

func TestSummarize_CountsByKind(t *testing.T) {
	// GIVEN a log covering one served call and one abandoned call
	l := NewLog()
	l.Append(Record{Kind: "CallArrival", CallID: "c1"})
	l.Append(Record{Kind: "CallArrival", CallID: "c2"})
	l.Append(Record{Kind: "AssignmentMade", CallID: "c1", AmbulanceID: "amb1"})
	l.Append(Record{Kind: "Departure", CallID: "c1", AmbulanceID: "amb1"})
	l.Append(Record{Kind: "SceneArrival", CallID: "c1", AmbulanceID: "amb1"})
	l.Append(Record{Kind: "ServiceComplete", CallID: "c1", AmbulanceID: "amb1"})
	l.Append(Record{Kind: "Abandoned", CallID: "c2"})
	l.Append(Record{Kind: "ReturnComplete", AmbulanceID: "amb1"})

	s := Summarize(l)

	if s.TotalEvents != 8 {
		t.Errorf("expected 8 total events, got %d", s.TotalEvents)
	}
	if s.Arrivals != 2 {
		t.Errorf("expected 2 arrivals, got %d", s.Arrivals)
	}
	if s.Assignments != 1 {
		t.Errorf("expected 1 assignment, got %d", s.Assignments)
	}
	if s.Completions != 1 {
		t.Errorf("expected 1 completion, got %d", s.Completions)
	}
	if s.Abandonments != 1 {
		t.Errorf("expected 1 abandonment, got %d", s.Abandonments)
	}
	if s.UniqueAmbulances != 1 {
		t.Errorf("expected 1 unique ambulance, got %d", s.UniqueAmbulances)
	}
	if s.KindCounts["CallArrival"] != 2 {
		t.Errorf("expected kind count 2 for CallArrival, got %d", s.KindCounts["CallArrival"])
	}
}

func TestSummarize_CountsRejections(t *testing.T) {
	l := NewLog()
	l.Append(Record{Kind: "PolicyRejected", CallID: "c1", AmbulanceID: "ghost"})

	s := Summarize(l)

	if s.Rejections != 1 {
		t.Errorf("expected 1 rejection, got %d", s.Rejections)
	}
}
