package main

import (
	"fmt"

	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "contactnet",
		Short: "Contact network community analysis",
		Long: `contactnet aggregates pairwise interaction records into one weighted
graph per observation period plus an aggregate graph, partitions each with
the Louvain method and reports network statistics.

Examples:
  contactnet generate -o contacts.csv
  contactnet analyze -i contacts.csv --formats table,csv
  contactnet expand edges.txt -o contacts.csv
  contactnet analyze -c contactnet.yaml`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newAnalyzeCmd(g),
		newExpandCmd(g),
		newGenerateCmd(g),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the configuration file, or the defaults when none is
// given, and applies the global flag overrides.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
	}
	return cfg, nil
}

// newLogger writes JSON lines to stderr so stdout stays clean for tables
func newLogger(cmd *cobra.Command, cfg *config.Config) logging.Logger {
	logger := logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Logging.Level)).
		With(logging.Component(cmd.Name()))
	logging.SetDefaultLogger(logger)
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "contactnet %s\n", version)
		},
	}
}
