package ingest

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"github.com/dd0wney/cluso-contactnet/pkg/validation"
	"golang.org/x/exp/mmap"
)

// WeightedPair is one row of a weighted edge list: Weight interactions
// between From and To with no period information.
type WeightedPair struct {
	From   graph.NodeID
	To     graph.NodeID
	Weight int
}

// ReadEdgeListFile reads a whitespace-separated `node1 node2 weight` file
// through a read-only memory map.
func ReadEdgeListFile(path string) ([]WeightedPair, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list %s: %w", path, err)
	}
	defer r.Close()

	return readEdgeList(io.NewSectionReader(r, 0, int64(r.Len())), path)
}

// ReadEdgeList reads `node1 node2 weight` rows. Blank lines and lines
// starting with # are skipped. Weights must be non-negative integers.
func ReadEdgeList(r io.Reader) ([]WeightedPair, error) {
	return readEdgeList(r, "")
}

func readEdgeList(r io.Reader, file string) ([]WeightedPair, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	pairs := make([]WeightedPair, 0, 1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: want 3 fields, got %d", ErrInvalidValue, len(fields))}
		}

		var ids [2]uint64
		for i := 0; i < 2; i++ {
			v, err := strconv.ParseUint(fields[i], 10, 64)
			if err != nil {
				return nil, &ParseError{File: file, Line: line, Column: i + 1, Err: fmt.Errorf("%w node %q", ErrInvalidValue, fields[i])}
			}
			ids[i] = v
		}

		w, err := parseCount(fields[2])
		if err != nil {
			return nil, &ParseError{File: file, Line: line, Column: 3, Err: err}
		}

		pairs = append(pairs, WeightedPair{From: graph.NodeID(ids[0]), To: graph.NodeID(ids[1]), Weight: w})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}
	return pairs, nil
}

// Input size limits. An edge-list row may not claim more than
// MaxEdgeWeight interactions, and one expansion or synthesis may not
// produce more than MaxRecords records.
const (
	MaxEdgeWeight = 1_000_000
	MaxRecords    = 10_000_000
)

// parseCount accepts integers and integral floats such as "3.0" in
// [0, MaxEdgeWeight]
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > MaxEdgeWeight {
			return 0, fmt.Errorf("%w weight %q: outside [0, %d]", ErrInvalidValue, s, MaxEdgeWeight)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("%w weight %q", ErrInvalidValue, s)
	}
	if f < 0 || f > MaxEdgeWeight {
		return 0, fmt.Errorf("%w weight %q: outside [0, %d]", ErrInvalidValue, s, MaxEdgeWeight)
	}
	return int(f), nil
}

// ExpandOptions controls how weights are spread over periods
type ExpandOptions struct {
	MinPeriod int   `yaml:"min_period" validate:"min=1"`
	MaxPeriod int   `yaml:"max_period" validate:"gtefield=MinPeriod"`
	Seed      int64 `yaml:"seed"`
}

// DefaultExpandOptions spreads over a five-period week with seed 42
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{MinPeriod: 1, MaxPeriod: 5, Seed: 42}
}

// Expand turns every pair into Weight records, each with a period drawn
// uniformly from [MinPeriod, MaxPeriod]. The output is fully determined by
// the input order and Seed. Weights outside [0, MaxEdgeWeight] and inputs
// expanding to more than MaxRecords records are rejected before allocating.
func Expand(pairs []WeightedPair, opts ExpandOptions) ([]contact.Record, error) {
	if err := validation.Struct(opts); err != nil {
		return nil, fmt.Errorf("expand: %w", err)
	}

	total := 0
	for i, p := range pairs {
		if p.Weight < 0 || p.Weight > MaxEdgeWeight {
			return nil, fmt.Errorf("expand: pair %d: %w weight %d", i, ErrInvalidValue, p.Weight)
		}
		total += p.Weight
		if total > MaxRecords {
			return nil, fmt.Errorf("expand: %w: more than %d records", ErrInvalidValue, MaxRecords)
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	span := opts.MaxPeriod - opts.MinPeriod + 1
	records := make([]contact.Record, 0, total)
	for _, p := range pairs {
		for i := 0; i < p.Weight; i++ {
			records = append(records, contact.Record{
				Source: p.From,
				Target: p.To,
				Period: opts.MinPeriod + rng.Intn(span),
			})
		}
	}
	return records, nil
}
