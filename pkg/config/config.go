// Package config loads and validates contactnet run configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/dd0wney/cluso-contactnet/pkg/algorithms"
	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/validation"
	"gopkg.in/yaml.v3"
)

// Input formats
const (
	FormatContacts = "contacts" // CSV contact log: source,target,day
	FormatEdgeList = "edgelist" // node1 node2 weight, expanded into records
)

// Output formats
const (
	OutputCSV        = "csv"
	OutputJSON       = "json"
	OutputJSONSnappy = "json.sz"
	OutputTable      = "table"
)

// DefaultExpandSeed is the seed used to spread edge-list weights over periods
const DefaultExpandSeed = 42

// Config is the full configuration of an analysis run
type Config struct {
	Input    InputConfig    `yaml:"input" json:"input"`
	Periods  PeriodConfig   `yaml:"periods" json:"periods"`
	Louvain  LouvainConfig  `yaml:"louvain" json:"louvain"`
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
}

// InputConfig describes where interaction records come from
type InputConfig struct {
	Path         string `yaml:"path" json:"path"`
	Format       string `yaml:"format" json:"format"`
	SourceColumn string `yaml:"source_column" json:"source_column" validate:"required"`
	TargetColumn string `yaml:"target_column" json:"target_column" validate:"required"`
	PeriodColumn string `yaml:"period_column" json:"period_column" validate:"required"`
	ExpandSeed   int64  `yaml:"expand_seed" json:"expand_seed"`
}

// PeriodConfig bounds the valid observation periods
type PeriodConfig struct {
	Min           int  `yaml:"min" json:"min" validate:"min=1"`
	Max           int  `yaml:"max" json:"max" validate:"gtefield=Min"`
	DropSelfLoops bool `yaml:"drop_self_loops" json:"drop_self_loops"`
}

// LouvainConfig tunes the modularity optimizer
type LouvainConfig struct {
	MaxPasses int     `yaml:"max_passes" json:"max_passes" validate:"min=1"`
	MaxLevels int     `yaml:"max_levels" json:"max_levels" validate:"min=1"`
	Epsilon   float64 `yaml:"epsilon" json:"epsilon" validate:"gt=0"`
	Order     string  `yaml:"order" json:"order"`
	Seed      int64   `yaml:"seed" json:"seed"`
}

// PipelineConfig sizes the analysis worker pool. Zero means one worker per CPU.
type PipelineConfig struct {
	Workers int `yaml:"workers" json:"workers" validate:"min=0,max=65536"`
}

// OutputConfig selects report destinations
type OutputConfig struct {
	Dir         string   `yaml:"dir" json:"dir"`
	Formats     []string `yaml:"formats" json:"formats" validate:"dive,oneof=csv json json.sz table"`
	MetricsFile string   `yaml:"metrics_file" json:"metrics_file"`
	S3          S3Config `yaml:"s3" json:"s3"`
}

// S3Config configures optional report upload. Static keys are for
// S3-compatible stores; when empty the default AWS credential chain is used.
type S3Config struct {
	Enabled         bool   `yaml:"enabled" json:"enabled"`
	Bucket          string `yaml:"bucket" json:"bucket"`
	Prefix          string `yaml:"prefix" json:"prefix"`
	Region          string `yaml:"region" json:"region"`
	Endpoint        string `yaml:"endpoint" json:"endpoint"`
	UsePathStyle    bool   `yaml:"use_path_style" json:"use_path_style"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" json:"-"`
}

// LoggingConfig sets the log level
type LoggingConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	periods := contact.DefaultOptions()
	louvain := algorithms.DefaultLouvainOptions()
	return &Config{
		Input: InputConfig{
			Format:       FormatContacts,
			SourceColumn: "source",
			TargetColumn: "target",
			PeriodColumn: "day",
			ExpandSeed:   DefaultExpandSeed,
		},
		Periods: PeriodConfig{
			Min: periods.MinPeriod,
			Max: periods.MaxPeriod,
		},
		Louvain: LouvainConfig{
			MaxPasses: louvain.MaxPasses,
			MaxLevels: louvain.MaxLevels,
			Epsilon:   louvain.Epsilon,
			Order:     louvain.Order.String(),
		},
		Output: OutputConfig{
			Dir:     ".",
			Formats: []string{OutputTable},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InputFormats lists the accepted input.format values
var InputFormats = []string{FormatContacts, FormatEdgeList}

// Validate checks struct tags and the cross-field rules
func (c *Config) Validate() error {
	return validation.NewConfigValidator("config").
		Struct(c).
		OneOf("input.format", c.Input.Format, InputFormats).
		OneOf("louvain.order", c.Louvain.Order, []string{
			algorithms.AscendingOrder.String(),
			algorithms.SeededOrder.String(),
		}).
		When(c.Output.S3.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("output.s3.bucket", c.Output.S3.Bucket)
		}).
		Validate()
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ContactOptions converts the period settings for the aggregator
func (c *Config) ContactOptions() contact.Options {
	return contact.Options{
		MinPeriod:     c.Periods.Min,
		MaxPeriod:     c.Periods.Max,
		DropSelfLoops: c.Periods.DropSelfLoops,
	}
}

// LouvainOptions converts the optimizer settings
func (c *Config) LouvainOptions() algorithms.LouvainOptions {
	order := algorithms.AscendingOrder
	if c.Louvain.Order == algorithms.SeededOrder.String() {
		order = algorithms.SeededOrder
	}
	return algorithms.LouvainOptions{
		MaxPasses: c.Louvain.MaxPasses,
		MaxLevels: c.Louvain.MaxLevels,
		Epsilon:   c.Louvain.Epsilon,
		Order:     order,
		Seed:      c.Louvain.Seed,
	}
}

// WorkerCount resolves the pool size, defaulting to the number of CPUs
func (c *Config) WorkerCount() int {
	return validation.DefaultOrInt(c.Pipeline.Workers, runtime.NumCPU())
}

// HasFormat reports whether format is among the requested outputs
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}
