package classifier

import (
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

// Compile-time interface check.
var _ Classifier = (*KNN)(nil)

// KNN classifies by majority vote among the k nearest labelled samples
// under Euclidean distance.
//
// Neighbours at equal distance are ordered by sample position, and a tied
// vote goes to the lexicographically smallest label, so predictions do not
// depend on map iteration or sort stability.
type KNN struct {
	k       int
	sorted  bool
	samples []Sample
	points  [][]float64
	labels  []string
	meta    Meta
}

// NewKNN builds a classifier over the given samples.
func NewKNN(samples []Sample, opts ...Option) (*KNN, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.NewValidationError("samples", 0, "at least one labelled sample is required")
	}

	m := &KNN{
		k:       o.k,
		sorted:  o.sortedAxes,
		samples: slices.Clone(samples),
		points:  make([][]float64, len(samples)),
	}
	seen := make(map[string]bool)
	for i, s := range samples {
		if s.Label == "" {
			return nil, errors.NewValidationError("samples.label", i, "sample has no label")
		}
		if !s.Dims.Valid() {
			return nil, errors.NewValidationError("samples.dims", s.Dims, "dimensions must be finite and non-negative")
		}
		m.points[i] = m.point(s.Dims)
		if !seen[s.Label] {
			seen[s.Label] = true
			m.labels = append(m.labels, s.Label)
		}
	}
	sort.Strings(m.labels)
	return m, nil
}

func (m *KNN) point(t dims.Triple) []float64 {
	if m.sorted {
		return t.Sorted().Slice()
	}
	return t.Slice()
}

// K returns the configured neighbour count.
func (m *KNN) K() int { return m.k }

// SortedAxes reports whether the model ignores orientation.
func (m *KNN) SortedAxes() bool { return m.sorted }

// Labels returns the distinct labels, sorted.
func (m *KNN) Labels() []string { return slices.Clone(m.labels) }

// Samples returns a copy of the training samples.
func (m *KNN) Samples() []Sample { return slices.Clone(m.samples) }

// Meta returns training metadata.
func (m *KNN) Meta() Meta { return m.meta }

// Classify returns the majority label among the k nearest samples.
func (m *KNN) Classify(t dims.Triple) (string, error) {
	if m == nil || len(m.samples) == 0 {
		return "", errors.ErrNotTrained
	}
	if err := checkInput(t); err != nil {
		return "", err
	}

	q := m.point(t)
	type neighbour struct {
		idx  int
		dist float64
	}
	ns := make([]neighbour, len(m.points))
	for i, p := range m.points {
		ns[i] = neighbour{idx: i, dist: floats.Distance(q, p, 2)}
	}
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].dist < ns[j].dist })

	k := min(m.k, len(ns))
	votes := make(map[string]int, k)
	for _, n := range ns[:k] {
		votes[m.samples[n.idx].Label]++
	}

	best, bestVotes := "", -1
	for label, v := range votes {
		if v > bestVotes || (v == bestVotes && label < best) {
			best, bestVotes = label, v
		}
	}
	return best, nil
}
