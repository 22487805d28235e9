package forest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stepData() (x, y [][]float64) {
	for i := 0; i < 10; i++ {
		v := float64(i)
		x = append(x, []float64{v, 100 - v})
		if i < 5 {
			y = append(y, []float64{1, -1})
		} else {
			y = append(y, []float64{5, 2})
		}
	}
	return x, y
}

func TestGrowTreeFitsStep(t *testing.T) {
	x, y := stepData()
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	tree := growTree(x, y, idx, Params{Estimators: 1, MinSamplesSplit: 2})

	assert.Len(t, tree.Nodes, 3)
	assert.Equal(t, 0, tree.Nodes[0].Feature)
	assert.Equal(t, 4.5, tree.Nodes[0].Threshold)
	assert.Equal(t, []float64{1, -1}, tree.Predict([]float64{2, 98}))
	assert.Equal(t, []float64{5, 2}, tree.Predict([]float64{7, 93}))
}

func TestGrowTreeRespectsLimits(t *testing.T) {
	x, y := stepData()
	idx := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	stump := growTree(x, y, idx, Params{Estimators: 1, MaxDepth: 0, MinSamplesSplit: 11})
	assert.Len(t, stump.Nodes, 1)
	assert.InDeltaSlice(t, []float64{3, 0.5}, stump.Predict([]float64{0, 0}), 1e-12)

	pure := growTree(x, y, []int{0, 1, 2}, Params{Estimators: 1, MinSamplesSplit: 2})
	assert.Len(t, pure.Nodes, 1)
}

func TestKFold(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 8}, {8, 10}, {10, 12}}, kFold(12, 5))
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}}, kFold(4, 2))
}
