package ingest

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"github.com/dd0wney/cluso-contactnet/pkg/validation"
)

// SynthesizeOptions describes a random contact log
type SynthesizeOptions struct {
	Individuals     int
	Periods         int
	MinInteractions int // per period, inclusive
	MaxInteractions int // per period, exclusive
	Seed            int64
}

// DefaultSynthesizeOptions is 50 students over 5 days with 100 to 199
// draws per day
func DefaultSynthesizeOptions() SynthesizeOptions {
	return SynthesizeOptions{
		Individuals:     50,
		Periods:         5,
		MinInteractions: 100,
		MaxInteractions: 200,
		Seed:            42,
	}
}

// Validate checks the option ranges and that the largest possible output
// stays within MaxRecords
func (o SynthesizeOptions) Validate() error {
	return validation.NewConfigValidator("synthesize").
		RangeInt("individuals", o.Individuals, 2, math.MaxInt32).
		RangeInt("periods", o.Periods, 1, MaxRecords).
		RangeInt("min_interactions", o.MinInteractions, 0, MaxRecords).
		Custom("max_interactions", func() error {
			if o.MaxInteractions <= o.MinInteractions {
				return fmt.Errorf("must exceed min_interactions %d, got %d", o.MinInteractions, o.MaxInteractions)
			}
			if o.Periods > 0 && o.MaxInteractions > MaxRecords/o.Periods {
				return fmt.Errorf("%d periods of up to %d draws exceed %d records", o.Periods, o.MaxInteractions, MaxRecords)
			}
			return nil
		}).
		Validate()
}

// Synthesize draws uniformly random contacts for test and demo data. Each
// period draws its interaction count, then that many endpoint pairs from
// 1..Individuals; draws with equal endpoints are discarded.
func Synthesize(opts SynthesizeOptions) ([]contact.Record, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	records := make([]contact.Record, 0, opts.Periods*opts.MaxInteractions)
	for period := 1; period <= opts.Periods; period++ {
		n := opts.MinInteractions + rng.Intn(opts.MaxInteractions-opts.MinInteractions)
		for i := 0; i < n; i++ {
			u := graph.NodeID(1 + rng.Intn(opts.Individuals))
			v := graph.NodeID(1 + rng.Intn(opts.Individuals))
			if u == v {
				continue
			}
			records = append(records, contact.Record{Source: u, Target: v, Period: period})
		}
	}
	return records, nil
}
