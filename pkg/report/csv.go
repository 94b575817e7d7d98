package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
)

// WriteCSV writes the statistics table with a header row. Modularity is
// left empty for rows that carry none.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(formatRow(row)); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Graph, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRow(row Row) []string {
	values := row.Stats.Values()
	record := make([]string, 0, len(values)+1)
	record = append(record, row.Graph)
	for _, v := range values {
		if v.Name == "modularity" && !row.Stats.HasModularity {
			record = append(record, "")
			continue
		}
		record = append(record, formatFloat(v.Value))
	}
	return record
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadCSV parses a table written by WriteCSV
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}
	for i, name := range records[0] {
		if name != Columns[i] {
			return nil, fmt.Errorf("read csv: column %d is %q, want %q", i+1, name, Columns[i])
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for line, rec := range records[1:] {
		row := Row{Graph: rec[0]}
		nums := make([]float64, len(rec)-1)
		for i, field := range rec[1:] {
			if field == "" && Columns[i+1] == "modularity" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: line %d column %s: %w", line+2, Columns[i+1], err)
			}
			nums[i] = v
		}
		row.Stats = algorithms.NetworkStats{
			NodeCount:         int(nums[0]),
			EdgeCount:         int(nums[1]),
			CommunityCount:    int(nums[2]),
			Modularity:        nums[3],
			HasModularity:     rec[4] != "",
			AvgDegree:         nums[4],
			AvgWeightedDegree: nums[5],
			Density:           nums[6],
			AvgClustering:     nums[7],
			Diameter:          int(nums[8]),
			AvgPathLength:     nums[9],
		}
		rows = append(rows, row)
	}
	return rows, nil
}
