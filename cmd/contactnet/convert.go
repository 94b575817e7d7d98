package main

import (
	"fmt"
	"os"

	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/ingest"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/spf13/cobra"
)

func newExpandCmd(g *globalFlags) *cobra.Command {
	var (
		output string
		seed   int64
	)

	cmd := &cobra.Command{
		Use:   "expand EDGELIST",
		Short: "Convert a weighted edge list into a contact log",
		Long: `Expand reads "node1 node2 weight" lines and emits weight contact records
per pair, each assigned a uniformly random period in the configured range.
The same seed always yields the same log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Input.ExpandSeed = seed
			}
			logger := newLogger(cmd, cfg)

			pairs, err := ingest.ReadEdgeListFile(args[0])
			if err != nil {
				return err
			}
			records, err := ingest.Expand(pairs, ingest.ExpandOptions{
				MinPeriod: cfg.Periods.Min,
				MaxPeriod: cfg.Periods.Max,
				Seed:      cfg.Input.ExpandSeed,
			})
			if err != nil {
				return err
			}

			if err := writeRecords(cmd, output, records); err != nil {
				return err
			}
			logger.Info("edge list expanded",
				logging.Int("pairs", len(pairs)),
				logging.Records(len(records)),
				logging.Path(output),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV file, stdout when empty")
	cmd.Flags().Int64Var(&seed, "seed", 0, "period assignment seed (default from config, 42)")
	return cmd
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var output string
	opts := ingest.DefaultSynthesizeOptions()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random contact log for demos and tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			records, err := ingest.Synthesize(opts)
			if err != nil {
				return err
			}
			if err := writeRecords(cmd, output, records); err != nil {
				return err
			}
			logger.Info("contact log generated",
				logging.Int("individuals", opts.Individuals),
				logging.Int("periods", opts.Periods),
				logging.Records(len(records)),
				logging.Path(output),
			)
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&output, "output", "o", "", "output CSV file, stdout when empty")
	fl.IntVar(&opts.Individuals, "individuals", opts.Individuals, "number of individuals")
	fl.IntVar(&opts.Periods, "periods", opts.Periods, "number of periods")
	fl.IntVar(&opts.MinInteractions, "min-interactions", opts.MinInteractions, "minimum draws per period")
	fl.IntVar(&opts.MaxInteractions, "max-interactions", opts.MaxInteractions, "maximum draws per period (exclusive)")
	fl.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	return cmd
}

// writeRecords writes a contact log to path, or stdout when path is empty
func writeRecords(cmd *cobra.Command, path string, records []contact.Record) error {
	if path == "" {
		return ingest.WriteContacts(cmd.OutOrStdout(), records, ingest.DefaultColumns())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := ingest.WriteContacts(f, records, ingest.DefaultColumns()); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
