package report

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dd0wney/cluso-contactnet/pkg/config"
	"github.com/dd0wney/cluso-contactnet/pkg/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := *params.Bucket + "/" + *params.Key
	f.objects[key] = data
	f.types[key] = *params.ContentType
	return &s3.PutObjectOutput{}, nil
}

// TestExporter_WritesFilesAndUploads tests every file format end to end
func TestExporter_WritesFilesAndUploads(t *testing.T) {
	rep := FromResult(runFixture(t), config.Default())
	dir := filepath.Join(t.TempDir(), "out")
	store := newFakeS3()
	reg := metrics.NewRegistry()

	exp := &Exporter{
		Output: config.OutputConfig{
			Dir:     dir,
			Formats: []string{config.OutputTable, config.OutputCSV, config.OutputJSON, config.OutputJSONSnappy},
		},
		Publisher: NewS3Publisher(store, "reports", "contactnet"),
		Metrics:   reg,
	}

	artifacts, err := exp.Export(context.Background(), rep)
	require.NoError(t, err)
	require.Len(t, artifacts, 3, "table format is not a file")

	for _, art := range artifacts {
		onDisk, err := os.ReadFile(art.Path)
		require.NoError(t, err)

		key := "reports/contactnet/" + rep.RunID + "/" + art.Name
		assert.Equal(t, "s3://"+key, art.URI)
		assert.Equal(t, onDisk, store.objects[key])
		assert.Equal(t, art.ContentType, store.types[key])
	}

	loaded, err := ReadFile(filepath.Join(dir, ReportSnappyName))
	require.NoError(t, err)
	assert.Equal(t, rep.Rows, loaded.Rows)

	var m dto.Metric
	require.NoError(t, reg.ReportsExported.WithLabelValues(config.OutputCSV).Write(&m))
	assert.Equal(t, 1.0, m.Counter.GetValue())
}

// TestExporter_UploadError tests that publisher failures surface
func TestExporter_UploadError(t *testing.T) {
	rep := FromResult(runFixture(t), nil)
	store := newFakeS3()
	store.err = errors.New("access denied")

	exp := &Exporter{
		Output:    config.OutputConfig{Formats: []string{config.OutputJSON}},
		Publisher: NewS3Publisher(store, "reports", ""),
	}

	_, err := exp.Export(context.Background(), rep)
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, err, "s3://reports/"+rep.RunID+"/report.json")
}

// TestS3Publisher_Key tests object key layout
func TestS3Publisher_Key(t *testing.T) {
	assert.Equal(t, "a/b/run/x.csv", NewS3Publisher(nil, "bucket", "a/b").Key("run", "x.csv"))
	assert.Equal(t, "run/x.csv", NewS3Publisher(nil, "bucket", "").Key("run", "x.csv"))
}

// TestNewS3PublisherFromConfig tests client construction with static keys
func TestNewS3PublisherFromConfig(t *testing.T) {
	pub, err := NewS3PublisherFromConfig(context.Background(), config.S3Config{
		Enabled:         true,
		Bucket:          "reports",
		Region:          "us-east-1",
		Endpoint:        "http://127.0.0.1:9000",
		UsePathStyle:    true,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "reports", pub.bucket)
	assert.NotNil(t, pub.client)
}
