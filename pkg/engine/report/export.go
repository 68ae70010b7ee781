// Package report prints an assembled table for inspection.
package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/dataset"
)

// TimeFormat is used for the Time column in every format.
const TimeFormat = time.RFC3339Nano

// ExportColumn matches the JSON structure of one sensor column.
type ExportColumn struct {
	Name    string    `json:"name"`
	Machine string    `json:"machine"`
	Sensor  string    `json:"sensor"`
	Values  []float64 `json:"values"`
}

// ExportTable matches the JSON structure of a table.
type ExportTable struct {
	Rows    int            `json:"rows"`
	Time    []string       `json:"time"`
	Columns []ExportColumn `json:"columns"`
}

// rowCount clamps limit to the table; limit <= 0 means every row.
func rowCount(t *dataset.Table, limit int) int {
	if limit <= 0 || limit > t.Len() {
		return t.Len()
	}
	return limit
}

// WriteCSV writes the time column followed by cols, one row per time step.
func WriteCSV(w io.Writer, t *dataset.Table, cols []dataset.Column, limit int) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(cols)+1)
	header = append(header, dataset.TimeColumn)
	for _, c := range cols {
		header = append(header, c.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	index := t.Time()
	record := make([]string, len(header))
	for row := 0; row < rowCount(t, limit); row++ {
		record[0] = index[row].Format(TimeFormat)
		for i, c := range cols {
			record[i+1] = strconv.FormatFloat(c.Values[row], 'f', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes a column-oriented document of the table.
func WriteJSON(w io.Writer, t *dataset.Table, cols []dataset.Column, limit int) error {
	n := rowCount(t, limit)

	doc := ExportTable{
		Rows:    n,
		Time:    make([]string, n),
		Columns: make([]ExportColumn, 0, len(cols)),
	}
	for i, ts := range t.Time()[:n] {
		doc.Time[i] = ts.Format(TimeFormat)
	}
	for _, c := range cols {
		doc.Columns = append(doc.Columns, ExportColumn{
			Name:    c.Name,
			Machine: c.Machine,
			Sensor:  string(c.Sensor),
			Values:  c.Values[:n],
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
