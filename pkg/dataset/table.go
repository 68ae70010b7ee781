// Package dataset assembles generated series into one aligned, column-oriented table.
package dataset

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/config"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/series"
)

// TimeColumn is the name of the shared time index column.
const TimeColumn = "Time"

var (
	// ErrLengthMismatch means a series does not line up with the time index.
	ErrLengthMismatch = errors.New("series length does not match time index")
	// ErrDuplicateColumn means two series map to the same column name.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// Column is one named sensor series within a table.
type Column struct {
	Name    string
	Machine string
	Sensor  config.SensorType
	Values  []float64
}

// Table maps column names to series that share one time index.
type Table struct {
	index   []time.Time
	columns []Column
	byName  map[string]int
}

// TimeIndex returns n timestamps one second apart, starting at start.
func TimeIndex(start time.Time, n int) []time.Time {
	index := make([]time.Time, n)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * time.Second)
	}
	return index
}

// Assemble builds a table from a time index and series, keeping series order.
func Assemble(index []time.Time, ss []series.Series) (*Table, error) {
	t := &Table{
		index:   index,
		columns: make([]Column, 0, len(ss)),
		byName:  make(map[string]int, len(ss)),
	}

	for _, s := range ss {
		name := s.Name()
		if name == TimeColumn {
			return nil, fmt.Errorf("%w: %s is reserved", ErrDuplicateColumn, name)
		}
		if len(s.Values) != len(index) {
			return nil, fmt.Errorf("%w: %s has %d rows, index has %d", ErrLengthMismatch, name, len(s.Values), len(index))
		}
		if _, ok := t.byName[name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}

		t.byName[name] = len(t.columns)
		t.columns = append(t.columns, Column{
			Name:    name,
			Machine: s.Machine,
			Sensor:  s.Sensor,
			Values:  s.Values,
		})
	}
	return t, nil
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.index) }

// Time returns the shared time index.
func (t *Table) Time() []time.Time { return t.index }

// Columns returns the sensor columns in insertion order. The time column is not included.
func (t *Table) Columns() []Column { return t.columns }

// Names returns every column name, starting with TimeColumn.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.columns)+1)
	names = append(names, TimeColumn)
	for _, c := range t.columns {
		names = append(names, c.Name)
	}
	return names
}

// Column looks up a sensor column by name.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// ColumnsFor returns every machine's column for one sensor type, in insertion order.
func (t *Table) ColumnsFor(sensor config.SensorType) []Column {
	var out []Column
	for _, c := range t.columns {
		if c.Sensor == sensor {
			out = append(out, c)
		}
	}
	return out
}

// Equal reports whether both tables hold the same index and values in the same order.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.columns) != len(other.columns) {
		return false
	}
	if !slices.EqualFunc(t.index, other.index, time.Time.Equal) {
		return false
	}
	for i, c := range t.columns {
		o := other.columns[i]
		if c.Name != o.Name || !slices.Equal(c.Values, o.Values) {
			return false
		}
	}
	return true
}
