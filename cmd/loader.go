// CSV table loaders. The engine consumes typed records only; every file
// format decision lives here, outside sim/. Column headers match the
// historical data files (Start/End/Travel Time/Traffic Delay etc.).

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	sim "github.com/dispatch-sim/dispatch-sim/sim"
)

// table is one parsed CSV file: a header index and its data rows.
type table struct {
	path  string
	index map[string]int
	rows  [][]string
}

// readTable parses a CSV file into a header-indexed table. The first header
// cell is stripped of a UTF-8 BOM, since the historical files were exported
// with one.
func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file: %w", path, sim.ErrInput)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	return &table{path: path, index: index, rows: records[1:]}, nil
}

// column returns the index for name, failing with ErrInput if absent.
func (t *table) column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%s: missing column %q: %w", t.path, name, sim.ErrInput)
	}
	return i, nil
}

func (t *table) float(row []string, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: bad numeric value %q: %w", t.path, row[col], sim.ErrInput)
	}
	return v, nil
}

// LoadNetworkEdges reads the road network table. Each row becomes one
// directed edge whose cost is travel time plus traffic delay, as the
// historical data defines it.
func LoadNetworkEdges(path string) ([]sim.EdgeRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	start, err := t.column("Start")
	if err != nil {
		return nil, err
	}
	end, err := t.column("End")
	if err != nil {
		return nil, err
	}
	travel, err := t.column("Travel Time")
	if err != nil {
		return nil, err
	}
	delay, err := t.column("Traffic Delay")
	if err != nil {
		return nil, err
	}

	edges := make([]sim.EdgeRecord, 0, len(t.rows))
	for _, row := range t.rows {
		tt, err := t.float(row, travel)
		if err != nil {
			return nil, err
		}
		td, err := t.float(row, delay)
		if err != nil {
			return nil, err
		}
		edges = append(edges, sim.EdgeRecord{
			From: sim.LocationID(strings.TrimSpace(row[start])),
			To:   sim.LocationID(strings.TrimSpace(row[end])),
			Cost: tt + td,
		})
	}
	return edges, nil
}

// LoadPriorityMap reads the call-type priority table into a code map
// (1 = most urgent).
func LoadPriorityMap(path string) (map[string]int, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	callType, err := t.column("Call Type")
	if err != nil {
		return nil, err
	}
	prio, err := t.column("Priority")
	if err != nil {
		return nil, err
	}

	priorities := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		code, err := strconv.Atoi(strings.TrimSpace(row[prio]))
		if err != nil {
			return nil, fmt.Errorf("%s: bad priority %q: %w", path, row[prio], sim.ErrInput)
		}
		priorities[strings.TrimSpace(row[callType])] = code
	}
	return priorities, nil
}

// LoadAmbulances reads the fleet table.
func LoadAmbulances(path string) ([]sim.AmbulanceRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	number, err := t.column("Ambulance Number")
	if err != nil {
		return nil, err
	}
	staging, err := t.column("Staging Location")
	if err != nil {
		return nil, err
	}

	units := make([]sim.AmbulanceRecord, 0, len(t.rows))
	for _, row := range t.rows {
		units = append(units, sim.AmbulanceRecord{
			ID:   sim.AmbulanceID(strings.TrimSpace(row[number])),
			Base: sim.LocationID(strings.TrimSpace(row[staging])),
		})
	}
	return units, nil
}

// LoadCalls reads the call log. Arrival times are in cost units and are
// scaled to ticks here. The "Arrival Time" column is optional: the earliest
// data files predate it, and their calls all arrive at tick zero.
func LoadCalls(path string, scale int64) ([]sim.CallRecord, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	id, err := t.column("Call ID")
	if err != nil {
		return nil, err
	}
	loc, err := t.column("Location")
	if err != nil {
		return nil, err
	}
	callType, err := t.column("Call Type")
	if err != nil {
		return nil, err
	}
	arrival, hasArrival := t.index["Arrival Time"]

	calls := make([]sim.CallRecord, 0, len(t.rows))
	for _, row := range t.rows {
		var arrivalTicks int64
		if hasArrival {
			v, err := t.float(row, arrival)
			if err != nil {
				return nil, err
			}
			arrivalTicks = int64(v*float64(scale) + 0.5)
		}
		calls = append(calls, sim.CallRecord{
			ID:           sim.CallID(strings.TrimSpace(row[id])),
			ArrivalTicks: arrivalTicks,
			Origin:       sim.LocationID(strings.TrimSpace(row[loc])),
			CallType:     strings.TrimSpace(row[callType]),
		})
	}
	return calls, nil
}
