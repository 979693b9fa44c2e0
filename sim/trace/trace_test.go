package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestLog_AppendPreservesOrder(t *testing.T) {
	// GIVEN records appended out of tick order
	l := NewLog()
	l.Append(Record{Seq: 0, Ticks: 5, Kind: "CallArrival", CallID: "c1"})
	l.Append(Record{Seq: 1, Ticks: 3, Kind: "CallArrival", CallID: "c2"})

	// THEN Records returns processing order, not tick order
	got := l.Records()
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].CallID != "c1" || got[1].CallID != "c2" {
		t.Errorf("records out of append order: %v", got)
	}
	if l.Len() != 2 {
		t.Errorf("expected Len 2, got %d", l.Len())
	}
}

func TestLog_WriteCSV(t *testing.T) {
	l := NewLog()
	l.Append(Record{Seq: 0, Ticks: 0, Kind: "CallArrival", CallID: "c1", Detail: "critical"})
	l.Append(Record{Seq: 1, Ticks: 0, Kind: "AssignmentMade", CallID: "c1", AmbulanceID: "amb1", Detail: "travel_ticks=5"})

	var buf bytes.Buffer
	if err := l.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Seq,Ticks,Event,Call ID,Ambulance ID,Detail" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "0,0,CallArrival,c1,,critical" {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if lines[2] != "1,0,AssignmentMade,c1,amb1,travel_ticks=5" {
		t.Errorf("unexpected row: %q", lines[2])
	}
}

func TestLog_WriteDispatchCSV(t *testing.T) {
	l := NewLog()
	l.AppendDispatch(DispatchRow{
		CallID:            "c1",
		CallType:          "cardiac",
		CallLocation:      "Scene",
		SelectedAmbulance: "amb1",
		TravelCost:        5.25,
	})

	var buf bytes.Buffer
	if err := l.WriteDispatchCSV(&buf); err != nil {
		t.Fatalf("WriteDispatchCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Call ID,Call Type,Call Location,Selected Ambulance,Time to Call Location" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "c1,cardiac,Scene,amb1,5.25" {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestLog_EmptyWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewLog().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "Seq,Ticks,Event,Call ID,Ambulance ID,Detail" {
		t.Errorf("expected header only, got %q", got)
	}
}
