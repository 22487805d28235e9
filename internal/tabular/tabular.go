// Package tabular reads header-addressed rows from CSV, semicolon logs and
// xlsx sheets, so every loader can look columns up by name.
package tabular

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/dimcheck/pkg/errors"
)

// Table is a header row plus data rows. Line numbers are 1-based and count
// the header, so Line(0) is the first data row's line in the source.
type Table struct {
	Format string
	Source string
	Header []string
	Rows   [][]string
	lines  []int
	index  map[string]int
}

// ReadDelimited reads a delimited text source whose first record is a header.
func ReadDelimited(r io.Reader, comma rune, format, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	t := &Table{Format: format, Source: source}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, errors.NewParseError(format, source, line, err.Error(), err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if t.Header == nil {
			t.setHeader(rec)
			continue
		}
		t.Rows = append(t.Rows, rec)
		t.lines = append(t.lines, line)
	}
	if t.Header == nil {
		return nil, errors.NewParseError(format, source, 0, "missing header row", nil)
	}
	return t, nil
}

// ReadCSV reads a comma-separated source.
func ReadCSV(r io.Reader, source string) (*Table, error) {
	return ReadDelimited(r, ',', "csv", source)
}

// ReadXLSX reads a sheet from an xlsx workbook. An empty sheet name selects
// the first sheet.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewParseError("xlsx", path, 0, "read sheet "+sheet, err)
	}

	t := &Table{Format: "xlsx", Source: path}
	for i, rec := range rows {
		if blank(rec) {
			continue
		}
		if t.Header == nil {
			t.setHeader(rec)
			continue
		}
		t.Rows = append(t.Rows, rec)
		t.lines = append(t.lines, i+1)
	}
	if t.Header == nil {
		return nil, errors.NewParseError("xlsx", path, 0, "missing header row", nil)
	}
	return t, nil
}

func (t *Table) setHeader(rec []string) {
	t.Header = make([]string, len(rec))
	t.index = make(map[string]int, len(rec))
	for i, h := range rec {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		key := strings.ToLower(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
}

// Col returns the index of a column, matched case-insensitively.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[strings.ToLower(name)]
	return i, ok
}

// Require returns the indexes of the named columns or a ParseError naming
// the first missing one.
func (t *Table) Require(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		c, ok := t.Col(n)
		if !ok {
			return nil, errors.NewParseError(t.Format, t.Source, 1, "missing column "+strconv.Quote(n), nil)
		}
		out[i] = c
	}
	return out, nil
}

// Line returns the source line of data row i.
func (t *Table) Line(i int) int {
	if i < 0 || i >= len(t.lines) {
		return 0
	}
	return t.lines[i]
}

// String returns the trimmed cell at row i, column c, or "" when the row is short.
func (t *Table) String(i, c int) string {
	row := t.Rows[i]
	if c < 0 || c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}

// Float parses the cell at row i, column c.
func (t *Table) Float(i, c int) (float64, error) {
	s := t.String(i, c)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		name := ""
		if c < len(t.Header) {
			name = t.Header[c]
		}
		return 0, errors.NewParseError(t.Format, t.Source, t.Line(i), strconv.Quote(name)+" value "+strconv.Quote(s)+" is not a number", err)
	}
	return v, nil
}

// Int parses the cell at row i, column c as an integer.
func (t *Table) Int(i, c int) (int, error) {
	s := t.String(i, c)
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, errors.NewParseError(t.Format, t.Source, t.Line(i), strconv.Quote(s)+" is not an integer", err)
		}
		v = int(f)
	}
	return v, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
