package classifier

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

const (
	artifactKind    = "knn"
	artifactVersion = 1
)

// Meta describes how a model was trained.
type Meta struct {
	TrainedAt time.Time `yaml:"trained_at,omitempty"`
	Accuracy  float64   `yaml:"accuracy,omitempty"`
	TrainSize int       `yaml:"train_size,omitempty"`
	TestSize  int       `yaml:"test_size,omitempty"`
}

type artifact struct {
	Kind       string           `yaml:"kind"`
	Version    int              `yaml:"version"`
	K          int              `yaml:"k"`
	SortedAxes bool             `yaml:"sorted_axes,omitempty"`
	Meta       Meta             `yaml:"meta"`
	Samples    []artifactSample `yaml:"samples"`
}

type artifactSample struct {
	Label string    `yaml:"label"`
	Dims  []float64 `yaml:"dims,flow"`
}

// Save writes the model as YAML.
func (m *KNN) Save(w io.Writer) error {
	a := artifact{Kind: artifactKind, Version: artifactVersion, K: m.k, SortedAxes: m.sorted, Meta: m.meta}
	a.Samples = make([]artifactSample, len(m.samples))
	for i, s := range m.samples {
		a.Samples[i] = artifactSample{Label: s.Label, Dims: s.Dims.Slice()}
	}
	return yaml.NewEncoder(w).Encode(a)
}

// SaveFile writes the model to path, creating parent directories.
func (m *KNN) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := m.Save(f); err != nil {
		_ = f.Close()
		return errors.WrapResource("save", "model", path, err)
	}
	return errors.WrapIO("close", path, f.Close())
}

// ModelFileName returns the file name a model trained at t is saved under.
// Names sort chronologically.
func ModelFileName(t time.Time) string {
	return "knn_" + t.UTC().Format(constants.TimeFormatFilename) + ".yaml"
}

// LatestModel returns the newest model file in dir, or "" when there is none.
func LatestModel(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "knn_*.yaml"))
	if err != nil {
		return "", errors.WrapIO("list", dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

// Load reads a model written by Save.
func Load(r io.Reader) (*KNN, error) {
	var a artifact
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.WrapParse("yaml", "model", err)
	}
	if a.Kind != artifactKind {
		return nil, errors.NewValidationError("kind", a.Kind, "not a knn model")
	}
	if a.Version != artifactVersion {
		return nil, errors.NewValidationError("version", a.Version, "unsupported model version")
	}

	samples := make([]Sample, len(a.Samples))
	for i, s := range a.Samples {
		if len(s.Dims) != 3 {
			return nil, errors.NewValidationError("samples.dims", s.Dims, "expected three dimensions")
		}
		samples[i] = Sample{Label: s.Label, Dims: dims.New(s.Dims[0], s.Dims[1], s.Dims[2])}
	}
	opts := []Option{WithK(a.K)}
	if a.SortedAxes {
		opts = append(opts, WithSortedAxes())
	}
	m, err := NewKNN(samples, opts...)
	if err != nil {
		return nil, err
	}
	m.meta = a.Meta
	return m, nil
}

// LoadFile reads a model from path.
func LoadFile(path string) (*KNN, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Load(f)
	if err != nil {
		return nil, errors.WrapResource("load", "model", path, err)
	}
	return m, nil
}

// ReadSamplesCSV reads labelled samples from a CSV with Length, Width,
// Height and Box columns.
func ReadSamplesCSV(r io.Reader, source string) ([]Sample, error) {
	tbl, err := tabular.ReadCSV(r, source)
	if err != nil {
		return nil, err
	}
	cols, err := tbl.Require("Length", "Width", "Height", "Box")
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		var t dims.Triple
		for a := range t {
			if t[a], err = tbl.Float(i, cols[a]); err != nil {
				return nil, err
			}
		}
		label := tbl.String(i, cols[3])
		if label == "" {
			return nil, errors.NewParseError("csv", source, tbl.Line(i), "empty Box label", nil)
		}
		samples = append(samples, Sample{Label: label, Dims: t})
	}
	return samples, nil
}
