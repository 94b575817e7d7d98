package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	aggregateStyle = cellStyle.
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// FormatStat renders one metric for display: counts as integers, other
// values with four decimals.
func FormatStat(name string, v float64) string {
	switch name {
	case "nodes", "edges", "communities", "diameter":
		return strconv.Itoa(int(v))
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}

// DisplayRow formats a row for a terminal table
func DisplayRow(row Row) []string {
	cells := []string{row.Graph}
	for _, v := range row.Stats.Values() {
		if v.Name == "modularity" && !row.Stats.HasModularity {
			cells = append(cells, "-")
			continue
		}
		cells = append(cells, FormatStat(v.Name, v.Value))
	}
	return cells
}

// RenderTable renders the statistics table with rounded borders. The last
// row is highlighted when it is the aggregate.
func RenderTable(rows []Row, aggregateLabel string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(Columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row].Graph == aggregateLabel:
				return aggregateStyle
			default:
				return cellStyle
			}
		})

	for _, row := range rows {
		t.Row(DisplayRow(row)...)
	}
	return t.String()
}
