// Package prefs persists operator choices between runs: which box types are
// selected for checking and the last tolerance used.
package prefs

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/tolerance"
)

// Prefs are the saved operator preferences.
type Prefs struct {
	SelectedBoxes []string             `yaml:"selected_boxes,omitempty" json:"selected_boxes,omitempty"`
	Tolerance     *tolerance.Tolerance `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
}

// Empty reports whether nothing has been saved.
func (p Prefs) Empty() bool {
	return len(p.SelectedBoxes) == 0 && p.Tolerance == nil
}

// Select replaces the selected boxes, dropping duplicates and keeping order.
func (p *Prefs) Select(labels ...string) {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	p.SelectedBoxes = out
}

// Load reads prefs from path. A missing file yields empty prefs.
func Load(path string) (*Prefs, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Prefs{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if p.Tolerance != nil {
		if err := p.Tolerance.Validate(); err != nil {
			return nil, errors.WrapResource("load", "prefs", path, err)
		}
	}
	return &p, nil
}

// Save writes prefs to path through a temp file and rename.
func (p *Prefs) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.WrapResource("save", "prefs", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs_*.yaml")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("move", path, err)
	}
	return nil
}
