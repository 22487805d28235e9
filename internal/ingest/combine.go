package ingest

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentstation/dimcheck/internal/tabular"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Source is a named log input.
type Source struct {
	Name   string
	Reader io.Reader
}

// DefaultCombineDir is used when combined inputs live in different directories.
const DefaultCombineDir = "output"

// Combine concatenates logs that share a header into w, keeping the first
// header. Row content is copied untouched, including zeroed scans. It returns
// the number of data rows written.
func Combine(w io.Writer, sources ...Source) (int, error) {
	if len(sources) == 0 {
		return 0, errors.NewValidationError("sources", nil, "no logs to combine")
	}

	cw := csv.NewWriter(w)
	cw.Comma = Separator

	var header []string
	rows := 0
	for _, src := range sources {
		tbl, err := tabular.ReadDelimited(src.Reader, Separator, "log", src.Name)
		if err != nil {
			return rows, err
		}
		if header == nil {
			header = tbl.Header
			if err := cw.Write(header); err != nil {
				return rows, errors.WrapIO("write", "combined log", err)
			}
		} else if !sameHeader(header, tbl.Header) {
			return rows, errors.NewParseError("log", src.Name, 1,
				"header "+strings.Join(tbl.Header, ";")+" does not match "+strings.Join(header, ";"), nil)
		}
		for _, rec := range tbl.Rows {
			if err := cw.Write(pad(rec, len(header))); err != nil {
				return rows, errors.WrapIO("write", "combined log", err)
			}
			rows++
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, errors.WrapIO("write", "combined log", err)
	}
	return rows, nil
}

// CombinedPath returns where a combined log named name is written: next to
// the inputs when they share a directory, otherwise under DefaultCombineDir.
func CombinedPath(name string, inputs ...string) string {
	if len(inputs) == 0 {
		return filepath.Join(DefaultCombineDir, name)
	}
	dir := filepath.Dir(inputs[0])
	for _, in := range inputs[1:] {
		if filepath.Dir(in) != dir {
			return filepath.Join(DefaultCombineDir, name)
		}
	}
	return filepath.Join(dir, name)
}

func sameHeader(a, b []string) bool {
	return slices.EqualFunc(a, b, strings.EqualFold)
}

func pad(rec []string, n int) []string {
	if len(rec) >= n {
		return rec
	}
	out := make([]string, n)
	copy(out, rec)
	return out
}
