package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Log collects the event records of one run, in processing order. It is the
// engine's primary output; appends happen between events, never mid-event,
// so the log always reflects a consistent prefix of the run.
type Log struct {
	records    []Record
	dispatches []DispatchRow
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{
		records:    make([]Record, 0),
		dispatches: make([]DispatchRow, 0),
	}
}

// Append adds an event record.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// AppendDispatch adds a dispatch-log row.
func (l *Log) AppendDispatch(d DispatchRow) {
	l.dispatches = append(l.dispatches, d)
}

// Records returns the event records in processing order. Callers must not
// mutate the returned slice.
func (l *Log) Records() []Record {
	return l.records
}

// Dispatches returns the dispatch-log rows in assignment order.
func (l *Log) Dispatches() []DispatchRow {
	return l.dispatches
}

// Len returns the number of event records.
func (l *Log) Len() int {
	return len(l.records)
}

// WriteCSV writes the full event log. Column order is fixed, so identical
// runs produce byte-identical output.
func (l *Log) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Seq", "Ticks", "Event", "Call ID", "Ambulance ID", "Detail"}); err != nil {
		return fmt.Errorf("write event log header: %w", err)
	}
	for _, r := range l.records {
		row := []string{
			strconv.FormatUint(r.Seq, 10),
			strconv.FormatInt(r.Ticks, 10),
			r.Kind,
			r.CallID,
			r.AmbulanceID,
			r.Detail,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write event log row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDispatchCSV writes the dispatch log in the historical column format.
func (l *Log) WriteDispatchCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"Call ID", "Call Type", "Call Location", "Selected Ambulance", "Time to Call Location"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write dispatch log header: %w", err)
	}
	for _, d := range l.dispatches {
		row := []string{
			d.CallID,
			d.CallType,
			d.CallLocation,
			d.SelectedAmbulance,
			strconv.FormatFloat(d.TravelCost, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write dispatch log row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
