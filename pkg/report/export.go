package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/logging"
	"github.com/dd0wney/cluso-contactnet/pkg/metrics"
)

// File names used by Export
const (
	StatsCSVName     = "network_statistics.csv"
	ReportJSONName   = "report.json"
	ReportSnappyName = "report.json.sz"
)

// Artifact is one exported file
type Artifact struct {
	Format      string
	Name        string
	Path        string // local path, empty when not written to disk
	URI         string // s3:// URI when uploaded
	ContentType string
}

// Exporter writes a report in the configured formats
type Exporter struct {
	Output    config.OutputConfig
	Publisher *S3Publisher // nil disables upload
	Logger    logging.Logger
	Metrics   *metrics.Registry
}

// Export encodes rep in every file format of e.Output, writes each to
// Output.Dir and uploads it when a publisher is set. The table format is
// terminal-only and skipped here.
func (e *Exporter) Export(ctx context.Context, rep *Report) ([]Artifact, error) {
	logger := e.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	var artifacts []Artifact
	for _, format := range e.Output.Formats {
		art, data, err := encode(format, rep)
		if err != nil {
			return artifacts, err
		}
		if data == nil {
			continue
		}

		if e.Output.Dir != "" {
			if err := os.MkdirAll(e.Output.Dir, 0o755); err != nil {
				return artifacts, fmt.Errorf("create output dir: %w", err)
			}
			art.Path = filepath.Join(e.Output.Dir, art.Name)
			if err := os.WriteFile(art.Path, data, 0o644); err != nil {
				return artifacts, fmt.Errorf("write %s: %w", art.Path, err)
			}
		}
		if e.Publisher != nil {
			uri, err := e.Publisher.Publish(ctx, rep.RunID, art.Name, art.ContentType, data)
			if err != nil {
				return artifacts, err
			}
			art.URI = uri
		}

		if e.Metrics != nil {
			e.Metrics.RecordExport(format)
		}
		logger.Info("report exported",
			logging.String("format", format),
			logging.Path(art.Path),
			logging.String("uri", art.URI),
			logging.Int("bytes", len(data)),
		)
		artifacts = append(artifacts, art)
	}
	return artifacts, nil
}

func encode(format string, rep *Report) (Artifact, []byte, error) {
	var buf bytes.Buffer
	var art Artifact
	var err error

	switch format {
	case config.OutputCSV:
		art = Artifact{Format: format, Name: StatsCSVName, ContentType: "text/csv"}
		err = WriteCSV(&buf, rep.Rows)
	case config.OutputJSON:
		art = Artifact{Format: format, Name: ReportJSONName, ContentType: "application/json"}
		err = WriteJSON(&buf, rep)
	case config.OutputJSONSnappy:
		art = Artifact{Format: format, Name: ReportSnappyName, ContentType: "application/x-snappy-framed"}
		err = WriteJSONSnappy(&buf, rep)
	case config.OutputTable:
		return art, nil, nil
	default:
		return art, nil, fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return art, nil, err
	}
	return art, buf.Bytes(), nil
}
