package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
	"github.com/dd0wney/cluso-contactnet/pkg/pipeline"
)

// correlationRows is a three-period table small enough to check by hand
func correlationRows() []Row {
	period := func(label string, communities int, q, density float64, clustering, apl float64) Row {
		return Row{Graph: label, Stats: algorithms.NetworkStats{
			CommunityCount: communities,
			Modularity:     q,
			HasModularity:  true,
			Density:        density,
			Diameter:       2,
			AvgClustering:  clustering,
			AvgPathLength:  apl,
		}}
	}
	return []Row{
		period("Period 1", 1, 0.1, 3, 1, 1.5),
		period("Period 2", 2, 0.2, 2, 3, 1.5),
		period("Period 3", 3, 0.3, 1, 2, 2.5),
		// Would break every coefficient above if it were included
		{Graph: pipeline.AggregateLabel, Stats: algorithms.NetworkStats{
			CommunityCount: 40, Modularity: -0.9, Density: 50, Diameter: 9, AvgClustering: -7, AvgPathLength: 30,
		}},
	}
}

func columnIndex(t *testing.T, name string) int {
	t.Helper()
	for i, c := range CorrelationColumns {
		if c == name {
			return i
		}
	}
	t.Fatalf("No correlation column %q", name)
	return -1
}

// TestCorrelation tests coefficients against hand-computed values
func TestCorrelation(t *testing.T) {
	m := Correlation(correlationRows())

	if m.Periods != 3 {
		t.Errorf("Expected 3 periods, got %d", m.Periods)
	}

	tests := []struct {
		a, b string
		want float64
	}{
		{"communities", "communities", 1},
		{"communities", "modularity", 1},
		{"communities", "density", -1},
		{"modularity", "density", -1},
		// deviations (-1,0,1) and (-1,1,0): 1 / sqrt(2*2)
		{"communities", "avg_clustering", 0.5},
		{"avg_clustering", "communities", 0.5},
		// deviations (-1,0,1) and (-1/3,-1/3,2/3): 1 / sqrt(2*2/3)
		{"communities", "avg_path_length", math.Sqrt(3) / 2},
	}
	for _, tt := range tests {
		r, ok := m.At(columnIndex(t, tt.a), columnIndex(t, tt.b))
		if !ok {
			t.Errorf("corr(%s, %s) undefined, want %v", tt.a, tt.b, tt.want)
			continue
		}
		if math.Abs(r-tt.want) > 1e-9 {
			t.Errorf("corr(%s, %s) = %v, want %v", tt.a, tt.b, r, tt.want)
		}
	}
}

// TestCorrelation_ZeroVariance tests that a constant metric has no coefficients
func TestCorrelation_ZeroVariance(t *testing.T) {
	m := Correlation(correlationRows())
	diameter := columnIndex(t, "diameter")

	for j, name := range CorrelationColumns {
		if r, ok := m.At(diameter, j); ok {
			t.Errorf("corr(diameter, %s) = %v, want undefined", name, r)
		}
		if r, ok := m.At(j, diameter); ok {
			t.Errorf("corr(%s, diameter) = %v, want undefined", name, r)
		}
	}
}

// TestCorrelation_TooFewPeriods tests that one period defines nothing
func TestCorrelation_TooFewPeriods(t *testing.T) {
	m := Correlation(correlationRows()[:1])

	if m.Periods != 1 {
		t.Errorf("Expected 1 period, got %d", m.Periods)
	}
	for i := range m.Columns {
		for j := range m.Columns {
			if _, ok := m.At(i, j); ok {
				t.Fatalf("Expected an undefined matrix, got a value at (%d, %d)", i, j)
			}
		}
	}

	if empty := Correlation(nil); empty.Periods != 0 || len(empty.Values) != len(CorrelationColumns) {
		t.Errorf("Unexpected matrix for no rows: %+v", empty)
	}
}

// TestCorrelation_JSON tests that undefined coefficients encode as null
func TestCorrelation_JSON(t *testing.T) {
	rep := &Report{RunID: "r", Rows: correlationRows()}
	rep.Correlation = Correlation(rep.Rows)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"correlation":`) || !strings.Contains(buf.String(), "null") {
		t.Errorf("Expected a correlation block with null entries, got %s", buf.String())
	}

	decoded, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if decoded.Correlation == nil {
		t.Fatal("Correlation lost in round trip")
	}
	i, j := columnIndex(t, "communities"), columnIndex(t, "avg_clustering")
	if r, ok := decoded.Correlation.At(i, j); !ok || math.Abs(r-0.5) > 1e-9 {
		t.Errorf("Decoded corr = %v (defined %v), want 0.5", r, ok)
	}
	if _, ok := decoded.Correlation.At(columnIndex(t, "diameter"), i); ok {
		t.Error("Undefined coefficient decoded as a number")
	}
}

// TestRenderCorrelation tests the terminal rendering
func TestRenderCorrelation(t *testing.T) {
	m := Correlation(correlationRows())

	out := RenderCorrelation(m)
	for _, want := range []string{"avg_clustering", "diameter", "1.0000", "-1.0000", "0.5000", "-"} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered matrix missing %q:\n%s", want, out)
		}
	}

	row := CorrelationRow(m, columnIndex(t, "diameter"))
	want := []string{"diameter", "-", "-", "-", "-", "-", "-"}
	if strings.Join(row, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, row)
	}
}
