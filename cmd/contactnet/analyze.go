package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/ingest"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/dd0wney/cluso-contactnet/pkg/metrics"
	"github.com/dd0wney/cluso-contactnet/pkg/pipeline"
	"github.com/dd0wney/cluso-contactnet/pkg/report"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	input         string
	format        string
	workers       int
	order         string
	seed          int64
	minPeriod     int
	maxPeriod     int
	dropSelfLoops bool
	outDir        string
	formats       []string
	metricsFile   string
}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build contact graphs, detect communities and report statistics",
		Long: `Analyze reads an interaction log, builds one graph per period plus the
aggregate graph, runs Louvain on each and writes the statistics table.

Flags override the configuration file. Use "-" as input to read stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Input.Path == "" {
				return fmt.Errorf("no input: set --input or input.path")
			}
			return runAnalyze(cmd, cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", `input file, "-" for stdin`)
	fl.StringVar(&f.format, "format", config.FormatContacts, "input format (contacts, edgelist)")
	fl.IntVarP(&f.workers, "workers", "w", 0, "parallel graph analyses, 0 for one per CPU")
	fl.StringVar(&f.order, "order", "ascending", "Louvain node visit order (ascending, seeded)")
	fl.Int64Var(&f.seed, "seed", 0, "seed for the seeded visit order")
	fl.IntVar(&f.minPeriod, "min-period", 1, "first valid period")
	fl.IntVar(&f.maxPeriod, "max-period", 5, "last valid period")
	fl.BoolVar(&f.dropSelfLoops, "drop-self-loops", false, "skip self-interactions instead of failing")
	fl.StringVarP(&f.outDir, "out", "o", ".", "directory for report files")
	fl.StringSliceVar(&f.formats, "formats", []string{config.OutputTable}, "report formats (table, csv, json, json.sz)")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	return cmd
}

// apply copies explicitly set flags over the loaded configuration
func (f *analyzeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input.Path = f.input
	}
	if changed("format") {
		cfg.Input.Format = f.format
	}
	if changed("workers") {
		cfg.Pipeline.Workers = f.workers
	}
	if changed("order") {
		cfg.Louvain.Order = f.order
	}
	if changed("seed") {
		cfg.Louvain.Seed = f.seed
	}
	if changed("min-period") {
		cfg.Periods.Min = f.minPeriod
	}
	if changed("max-period") {
		cfg.Periods.Max = f.maxPeriod
	}
	if changed("drop-self-loops") {
		cfg.Periods.DropSelfLoops = f.dropSelfLoops
	}
	if changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if changed("formats") {
		cfg.Output.Formats = f.formats
	}
	if changed("metrics-file") {
		cfg.Output.MetricsFile = f.metricsFile
	}
}

func runAnalyze(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd, cfg)
	reg := metrics.NewRegistry()

	records, err := readRecords(cmd.InOrStdin(), cfg)
	if err != nil {
		return err
	}
	logger.Info("records loaded",
		logging.Path(cfg.Input.Path),
		logging.String("format", cfg.Input.Format),
		logging.Records(len(records)),
	)

	res, err := pipeline.Run(ctx, records, pipeline.OptionsFromConfig(cfg, logger, reg))
	if err != nil {
		return err
	}

	rep := report.FromResult(res, cfg)
	if cfg.HasFormat(config.OutputTable) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, report.RenderTable(rep.Rows, pipeline.AggregateLabel))
		fmt.Fprintln(out, "Correlation across periods")
		fmt.Fprintln(out, report.RenderCorrelation(rep.Correlation))
	}

	exporter := &report.Exporter{
		Output:  cfg.Output,
		Logger:  logger.With(logging.RunID(rep.RunID)),
		Metrics: reg,
	}
	if cfg.Output.S3.Enabled {
		exporter.Publisher, err = report.NewS3PublisherFromConfig(ctx, cfg.Output.S3)
		if err != nil {
			return err
		}
	}
	if _, err := exporter.Export(ctx, rep); err != nil {
		return err
	}

	if cfg.Output.MetricsFile != "" {
		if err := reg.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// readRecords loads the configured input, expanding edge lists into
// period-stamped records
func readRecords(stdin io.Reader, cfg *config.Config) ([]contact.Record, error) {
	cols := ingest.Columns{
		Source: cfg.Input.SourceColumn,
		Target: cfg.Input.TargetColumn,
		Period: cfg.Input.PeriodColumn,
	}
	fromStdin := cfg.Input.Path == "-"

	switch cfg.Input.Format {
	case config.FormatEdgeList:
		var pairs []ingest.WeightedPair
		var err error
		if fromStdin {
			pairs, err = ingest.ReadEdgeList(stdin)
		} else {
			pairs, err = ingest.ReadEdgeListFile(cfg.Input.Path)
		}
		if err != nil {
			return nil, err
		}
		return ingest.Expand(pairs, ingest.ExpandOptions{
			MinPeriod: cfg.Periods.Min,
			MaxPeriod: cfg.Periods.Max,
			Seed:      cfg.Input.ExpandSeed,
		})
	default:
		if fromStdin {
			return ingest.ReadContacts(stdin, cols)
		}
		return ingest.ReadContactsFile(cfg.Input.Path, cols)
	}
}
