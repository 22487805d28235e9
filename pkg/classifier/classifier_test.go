package classifier_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dimcheck/pkg/catalogs"
	"github.com/agentstation/dimcheck/pkg/classifier"
	"github.com/agentstation/dimcheck/pkg/dims"
	"github.com/agentstation/dimcheck/pkg/errors"
)

func clusterSamples() []classifier.Sample {
	var out []classifier.Sample
	centres := map[string]dims.Triple{
		"B1": dims.New(12, 8, 4),
		"B2": dims.New(20, 16, 10),
		"B3": dims.New(30, 24, 18),
	}
	offsets := []dims.Triple{
		dims.New(0, 0, 0), dims.New(0.1, -0.1, 0), dims.New(-0.2, 0.1, 0.1),
		dims.New(0.1, 0.2, -0.1), dims.New(-0.1, 0, 0.2),
	}
	for _, label := range []string{"B1", "B2", "B3"} {
		for _, off := range offsets {
			c := centres[label]
			out = append(out, classifier.Sample{Label: label, Dims: dims.New(c[0]+off[0], c[1]+off[1], c[2]+off[2])})
		}
	}
	return out
}

func TestKNNClassify(t *testing.T) {
	m, err := classifier.NewKNN(clusterSamples())
	require.NoError(t, err)
	assert.Equal(t, 3, m.K())
	assert.Equal(t, []string{"B1", "B2", "B3"}, m.Labels())

	tests := []struct {
		in   dims.Triple
		want string
	}{
		{dims.New(12.1, 7.9, 4.0), "B1"},
		{dims.New(19.5, 16.3, 10.1), "B2"},
		{dims.New(31, 23, 18), "B3"},
	}
	for _, tt := range tests {
		got, err := m.Classify(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "classify %v", tt.in)
	}
}

func TestKNNDeterministic(t *testing.T) {
	m, err := classifier.NewKNN(clusterSamples())
	require.NoError(t, err)

	q := dims.New(16, 12, 7)
	first, err := m.Classify(q)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := m.Classify(q)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestKNNTieGoesToSmallestLabel(t *testing.T) {
	samples := []classifier.Sample{
		{Label: "Z", Dims: dims.New(1, 0, 0)},
		{Label: "A", Dims: dims.New(0, 1, 0)},
	}
	m, err := classifier.NewKNN(samples, classifier.WithK(2))
	require.NoError(t, err)

	got, err := m.Classify(dims.New(0.5, 0.5, 0.1))
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestKNNRejectsDegenerateInput(t *testing.T) {
	m, err := classifier.NewKNN(clusterSamples())
	require.NoError(t, err)

	_, err = m.Classify(dims.Triple{})
	assert.True(t, errors.IsDegenerate(err))
	assert.True(t, errors.IsValidationError(err))

	_, err = m.Classify(dims.New(-1, 2, 3))
	assert.True(t, errors.IsValidationError(err))

	var nilModel *classifier.KNN
	_, err = nilModel.Classify(dims.New(1, 2, 3))
	assert.ErrorIs(t, err, errors.ErrNotTrained)
}

func TestNewKNNValidation(t *testing.T) {
	_, err := classifier.NewKNN(nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = classifier.NewKNN(clusterSamples(), classifier.WithK(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = classifier.NewKNN([]classifier.Sample{{Dims: dims.New(1, 1, 1)}})
	assert.True(t, errors.IsValidationError(err))
}

func TestTrain(t *testing.T) {
	samples := clusterSamples()
	m, ev, err := classifier.Train(samples)
	require.NoError(t, err)

	assert.Equal(t, 3, ev.TestSize)
	assert.Equal(t, 12, ev.TrainSize)
	assert.True(t, ev.Evaluated())
	assert.Equal(t, 1.0, ev.Accuracy)
	assert.Len(t, m.Samples(), 12)
	assert.False(t, m.Meta().TrainedAt.IsZero())

	// Same seed, same split.
	m2, _, err := classifier.Train(samples)
	require.NoError(t, err)
	assert.Equal(t, m.Samples(), m2.Samples())

	_, _, err = classifier.Train(samples[:1])
	assert.True(t, errors.IsValidationError(err))

	_, _, err = classifier.Train(samples, classifier.WithTestFraction(1))
	assert.True(t, errors.IsValidationError(err))
}

func TestSplit(t *testing.T) {
	samples := clusterSamples()
	train, test := classifier.Split(samples, 0.2, 42)
	assert.Len(t, test, 3)
	assert.Len(t, train, 12)
	assert.ElementsMatch(t, samples, append(train, test...))

	train, test = classifier.Split(samples, 0, 42)
	assert.Empty(t, test)
	assert.Len(t, train, len(samples))
}

func TestSaveLoad(t *testing.T) {
	m, _, err := classifier.Train(clusterSamples())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	assert.Contains(t, buf.String(), "kind: knn")

	loaded, err := classifier.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.K(), loaded.K())
	assert.Equal(t, m.Samples(), loaded.Samples())
	assert.Equal(t, m.Meta().Accuracy, loaded.Meta().Accuracy)

	path := filepath.Join(t.TempDir(), "models", "knn.yaml")
	require.NoError(t, m.SaveFile(path))
	fromFile, err := classifier.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Labels(), fromFile.Labels())

	_, err = classifier.Load(strings.NewReader("kind: forest\nversion: 1\n"))
	assert.True(t, errors.IsValidationError(err))
}

func TestReadSamplesCSV(t *testing.T) {
	src := "Length,Width,Height,Box\n12,8,4,B1\n20,16,10,B2\n"
	samples, err := classifier.ReadSamplesCSV(strings.NewReader(src), "Xtrain.csv")
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, classifier.Sample{Label: "B2", Dims: dims.New(20, 16, 10)}, samples[1])

	_, err = classifier.ReadSamplesCSV(strings.NewReader("Length,Width,Height,Box\n1,2,3,\n"), "x.csv")
	assert.Error(t, err)
}

func TestNewNearest(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		{Label: "B1", Length: 12, Width: 8, Height: 4},
		{Label: "B2", Length: 20, Width: 16, Height: 10},
	})
	require.NoError(t, err)

	m, err := classifier.NewNearest(cat)
	require.NoError(t, err)
	assert.Equal(t, 1, m.K())

	got, err := m.Classify(dims.New(19, 15, 11))
	require.NoError(t, err)
	assert.Equal(t, "B2", got)
	assert.True(t, m.SortedAxes())
}

func TestNewNearestRotated(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		{Label: "B1", Length: 4.0, Width: 2.0, Height: 5.8},
		{Label: "CUBE", Length: 5, Width: 5, Height: 5},
	})
	require.NoError(t, err)

	m, err := classifier.NewNearest(cat)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   dims.Triple
		want string
	}{
		{"catalog orientation", dims.New(4.0, 2.0, 5.8), "B1"},
		{"on its side", dims.New(5.8, 4.0, 2.0), "B1"},
		{"upended", dims.New(2.0, 5.8, 4.0), "B1"},
		{"near cube", dims.New(5.1, 4.9, 5.0), "CUBE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Classify(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	assert.Contains(t, buf.String(), "sorted_axes: true")
	loaded, err := classifier.Load(&buf)
	require.NoError(t, err)
	assert.True(t, loaded.SortedAxes())
	got, err := loaded.Classify(dims.New(5.8, 4.0, 2.0))
	require.NoError(t, err)
	assert.Equal(t, "B1", got)
}

func TestNewNearestTieGoesToFirstEntry(t *testing.T) {
	cat, err := catalogs.FromBoxes([]catalogs.BoxType{
		{Label: "WIDE", Length: 10, Width: 6, Height: 2},
		{Label: "TALL", Length: 2, Width: 6, Height: 10},
	})
	require.NoError(t, err)

	m, err := classifier.NewNearest(cat)
	require.NoError(t, err)
	got, err := m.Classify(dims.New(6, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, "WIDE", got)
}

func TestLatestModel(t *testing.T) {
	dir := t.TempDir()

	latest, err := classifier.LatestModel(dir)
	require.NoError(t, err)
	assert.Empty(t, latest)

	older := classifier.ModelFileName(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	newer := classifier.ModelFileName(time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, "knn_20250301-080000.yaml", older)

	for _, name := range []string{newer, older, "notes.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("kind: knn\n"), 0o644))
	}
	latest, err = classifier.LatestModel(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, newer), latest)
}
