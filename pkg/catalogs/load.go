package catalogs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/constants"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// catalogFile is the on-disk YAML layout.
type catalogFile struct {
	Unit  string    `yaml:"unit,omitempty"`
	Boxes []BoxType `yaml:"boxes"`
}

// LoadFile loads a catalog, choosing the format from the file extension:
// .yaml/.yml, .csv (Box,Length,Width,Height) or .xlsx (first sheet).
func LoadFile(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path, "")
	case ".csv", ".yaml", ".yml":
	default:
		return nil, errors.NewValidationError("catalog", path, "unsupported catalog format, want .yaml, .csv or .xlsx")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return loadCSV(bytes.NewReader(data), path)
	}
	return loadYAML(data, path)
}

// LoadYAML reads a catalog in YAML form.
func LoadYAML(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "catalog", err)
	}
	return loadYAML(data, "")
}

func loadYAML(data []byte, source string) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse("yaml", source, err)
	}
	return FromBoxes(f.Boxes)
}

// LoadCSV reads a catalog with Box, Length, Width and Height columns.
func LoadCSV(r io.Reader) (*Catalog, error) {
	return loadCSV(r, "")
}

func loadCSV(r io.Reader, source string) (*Catalog, error) {
	tbl, err := tabular.ReadCSV(r, source)
	if err != nil {
		return nil, err
	}
	return fromTable(tbl)
}

// LoadXLSX reads a catalog from an xlsx sheet with the same columns as LoadCSV.
func LoadXLSX(path, sheet string) (*Catalog, error) {
	tbl, err := tabular.ReadXLSX(path, sheet)
	if err != nil {
		return nil, err
	}
	return fromTable(tbl)
}

func fromTable(tbl *tabular.Table) (*Catalog, error) {
	cols, err := tbl.Require("Box", "Length", "Width", "Height")
	if err != nil {
		return nil, err
	}

	boxes := make([]BoxType, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		b := BoxType{Label: tbl.String(i, cols[0])}
		for j, dst := range []*float64{&b.Length, &b.Width, &b.Height} {
			if *dst, err = tbl.Float(i, cols[j+1]); err != nil {
				return nil, err
			}
		}
		if desc, ok := tbl.Col("Description"); ok {
			b.Description = tbl.String(i, desc)
		}
		boxes = append(boxes, b)
	}
	return FromBoxes(boxes)
}

// FormatYAML renders the catalog as YAML with a header comment.
func (c *Catalog) FormatYAML() ([]byte, error) {
	f := catalogFile{Boxes: c.List()}

	comments := yaml.CommentMap{
		"$": []*yaml.Comment{
			yaml.HeadComment(" Certified box types and their reference dimensions"),
		},
	}
	for i, b := range f.Boxes {
		if b.Description != "" {
			comments[fmt.Sprintf("$.boxes[%d]", i)] = []*yaml.Comment{yaml.HeadComment(" " + b.Description)}
		}
	}

	data, err := yaml.MarshalWithOptions(f,
		yaml.Indent(2),
		yaml.IndentSequence(true),
		yaml.WithComment(comments),
	)
	if err != nil {
		return yaml.Marshal(f)
	}
	return data, nil
}

// Save writes the catalog as YAML to path.
func (c *Catalog) Save(path string) error {
	data, err := c.FormatYAML()
	if err != nil {
		return errors.WrapResource("save", "catalog", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return errors.WrapIO("write", path, os.WriteFile(path, data, constants.FilePermissions))
}
