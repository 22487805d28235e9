package ingest

import (
	"bufio"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"

	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
	"github.com/agentstation/dimcheck/pkg/reconcile"
)

var vmsResult = regexp.MustCompile(`VMS Result (before|after) correction:\s+ID\s*:\s*(\d+),\s*L\s*:\s*(\d+),\s*W\s*:\s*(\d+),\s*H\s*:\s*(\d+)`)

// VMSRecord is one sorter result line.
type VMSRecord struct {
	ID        int
	Dims      dims.Triple
	Corrected bool
	Line      int
}

// Unit converts the record to a reconciliation unit keyed by its sorter ID.
func (r VMSRecord) Unit() reconcile.Unit {
	return reconcile.Unit{Index: r.ID, RecordID: strconv.Itoa(r.ID), Dims: r.Dims}
}

// VMSValue converts a raw sorter reading to the catalog's unit, snapping to
// the sorter's 0.2 grid.
func VMSValue(raw int) float64 {
	return math.Floor((float64(raw)/2.54)/20+0.5) * 20 / 100
}

// ParseVMSLog extracts the latest result per ID from a sorter log. A later
// result for the same ID replaces an earlier one, so after-correction results
// override before-correction ones. A line may carry several results. Records
// are sorted by ID.
func ParseVMSLog(r io.Reader) ([]VMSRecord, error) {
	latest := make(map[int]VMSRecord)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		matches := vmsResult.FindAllStringSubmatch(sc.Text(), -1)
		// An after-correction result wins over a before-correction result
		// on the same line, whichever is written first.
		slices.SortStableFunc(matches, func(a, b []string) int {
			return boolRank(a[1] == "after") - boolRank(b[1] == "after")
		})
		for _, m := range matches {
			var vals [4]int
			for i := range vals {
				v, err := strconv.Atoi(m[i+2])
				if err != nil {
					return nil, errors.NewParseError("vms", "", line, "value "+strconv.Quote(m[i+2])+" out of range", err)
				}
				vals[i] = v
			}
			latest[vals[0]] = VMSRecord{
				ID:        vals[0],
				Dims:      dims.New(VMSValue(vals[1]), VMSValue(vals[2]), VMSValue(vals[3])),
				Corrected: m[1] == "after",
				Line:      line,
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapIO("read", "vms log", err)
	}

	out := make([]VMSRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b VMSRecord) int { return a.ID - b.ID })
	return out, nil
}

// VMSUnits converts parsed records to units in ID order.
func VMSUnits(records []VMSRecord) []reconcile.Unit {
	units := make([]reconcile.Unit, len(records))
	for i, r := range records {
		units[i] = r.Unit()
	}
	return units
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
