package report

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dd0wney/cluso-contactnet/pkg/pipeline"
	"gonum.org/v1/gonum/stat"
)

// CorrelationColumns are the per-period metrics compared pairwise
var CorrelationColumns = []string{
	"communities",
	"modularity",
	"density",
	"diameter",
	"avg_clustering",
	"avg_path_length",
}

// CorrelationMatrix holds Pearson coefficients between metrics across the
// period graphs. A nil entry is undefined: fewer than two periods, or a
// metric that never varies.
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Periods int          `json:"periods"`
	Values  [][]*float64 `json:"values"`
}

// At returns the coefficient for columns i and j and whether it is defined
func (m *CorrelationMatrix) At(i, j int) (float64, bool) {
	if v := m.Values[i][j]; v != nil {
		return *v, true
	}
	return 0, false
}

// Correlation compares CorrelationColumns across the period rows. The
// aggregate row is left out.
func Correlation(rows []Row) *CorrelationMatrix {
	series := make([][]float64, len(CorrelationColumns))
	periods := 0
	for _, row := range rows {
		if row.Graph == pipeline.AggregateLabel {
			continue
		}
		periods++

		byName := make(map[string]float64)
		for _, v := range row.Stats.Values() {
			byName[v.Name] = v.Value
		}
		for i, name := range CorrelationColumns {
			series[i] = append(series[i], byName[name])
		}
	}

	m := &CorrelationMatrix{
		Columns: CorrelationColumns,
		Periods: periods,
		Values:  make([][]*float64, len(CorrelationColumns)),
	}
	for i := range CorrelationColumns {
		m.Values[i] = make([]*float64, len(CorrelationColumns))
		if periods < 2 {
			continue
		}
		for j := range CorrelationColumns {
			r := stat.Correlation(series[i], series[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			m.Values[i][j] = &r
		}
	}
	return m
}

// RenderCorrelation renders the matrix as a terminal table with "-" for
// undefined coefficients
func RenderCorrelation(m *CorrelationMatrix) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(append([]string{""}, m.Columns...)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			return cellStyle
		})

	for i := range m.Columns {
		t.Row(CorrelationRow(m, i)...)
	}
	return t.String()
}

// CorrelationRow formats row i of the matrix, led by its column name
func CorrelationRow(m *CorrelationMatrix, i int) []string {
	cells := []string{m.Columns[i]}
	for j := range m.Columns {
		if r, ok := m.At(i, j); ok {
			cells = append(cells, strconv.FormatFloat(r, 'f', 4, 64))
		} else {
			cells = append(cells, "-")
		}
	}
	return cells
}
