package forest

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

const (
	artifactKind    = "forest"
	artifactVersion = 1
)

type artifact struct {
	Kind      string    `yaml:"kind"`
	Version   int       `yaml:"version"`
	TrainedAt time.Time `yaml:"trained_at"`
	Inputs    int       `yaml:"inputs"`
	Outputs   int       `yaml:"outputs"`
	Forest    *Forest   `yaml:"forest"`
}

// Save writes the forest as YAML.
func (f *Forest) Save(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(artifact{
		Kind:      artifactKind,
		Version:   artifactVersion,
		TrainedAt: time.Now().UTC(),
		Inputs:    f.inputs,
		Outputs:   f.outputs,
		Forest:    f,
	})
}

// SaveFile writes the forest to path, creating parent directories.
func (f *Forest) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := f.Save(file); err != nil {
		_ = file.Close()
		return errors.WrapResource("save", "forest", path, err)
	}
	return errors.WrapIO("close", path, file.Close())
}

// Load reads a forest written by Save.
func Load(r io.Reader) (*Forest, error) {
	var a artifact
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.WrapParse("yaml", "forest", err)
	}
	if a.Kind != artifactKind || a.Version != artifactVersion {
		return nil, errors.NewValidationError("kind", a.Kind, "not a supported forest artifact")
	}
	if a.Forest == nil || len(a.Forest.Trees) == 0 {
		return nil, errors.ErrNotTrained
	}
	if a.Inputs < 1 || a.Outputs < 1 {
		return nil, errors.NewValidationError("shape", a.Inputs, "artifact has no input or output shape")
	}
	a.Forest.inputs, a.Forest.outputs = a.Inputs, a.Outputs
	return a.Forest, nil
}

// LoadFile reads a forest from path.
func LoadFile(path string) (*Forest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = file.Close() }()

	f, err := Load(file)
	if err != nil {
		return nil, errors.WrapResource("load", "forest", path, err)
	}
	return f, nil
}
