package forest

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// node is a flattened tree node. Leaves have Feature == -1.
type node struct {
	Feature   int       `yaml:"f"`
	Threshold float64   `yaml:"t,omitempty"`
	Left      int       `yaml:"l,omitempty"`
	Right     int       `yaml:"r,omitempty"`
	Value     []float64 `yaml:"v,flow,omitempty"`
}

// Tree is a multi-output regression tree grown with the summed squared
// error criterion.
type Tree struct {
	Nodes []node `yaml:"nodes"`
}

type grower struct {
	x        [][]float64
	y        [][]float64
	maxDepth int
	minSplit int
	outputs  int
	tree     *Tree
}

// growTree fits a tree on the rows listed in idx (duplicates allowed).
func growTree(x, y [][]float64, idx []int, p Params) *Tree {
	g := &grower{
		x:        x,
		y:        y,
		maxDepth: p.MaxDepth,
		minSplit: max(p.MinSamplesSplit, 2),
		outputs:  len(y[0]),
		tree:     &Tree{},
	}
	g.grow(idx, 0)
	return g.tree
}

func (g *grower) grow(idx []int, depth int) int {
	id := len(g.tree.Nodes)
	g.tree.Nodes = append(g.tree.Nodes, node{Feature: -1, Value: g.mean(idx)})

	if len(idx) < g.minSplit || (g.maxDepth > 0 && depth >= g.maxDepth) {
		return id
	}
	feature, threshold, ok := g.bestSplit(idx)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if g.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)
	g.tree.Nodes[id] = node{Feature: feature, Threshold: threshold, Left: l, Right: r}
	return id
}

func (g *grower) mean(idx []int) []float64 {
	out := make([]float64, g.outputs)
	for _, i := range idx {
		floats.Add(out, g.y[i])
	}
	floats.Scale(1/float64(len(idx)), out)
	return out
}

// bestSplit scans every feature for the threshold that most reduces the
// summed squared error. Thresholds sit halfway between distinct values.
func (g *grower) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	total := make([]float64, g.outputs)
	totalSq := 0.0
	for _, i := range idx {
		floats.Add(total, g.y[i])
		totalSq += floats.Dot(g.y[i], g.y[i])
	}
	parentSSE := totalSq - floats.Dot(total, total)/float64(n)
	if parentSSE <= 1e-12 {
		return 0, 0, false
	}

	bestSSE := parentSSE
	order := make([]int, n)
	leftSum := make([]float64, g.outputs)
	for f := range g.x[idx[0]] {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool { return g.x[order[a]][f] < g.x[order[b]][f] })

		for k := range leftSum {
			leftSum[k] = 0
		}
		leftSq := 0.0
		for pos := 0; pos < n-1; pos++ {
			row := g.y[order[pos]]
			floats.Add(leftSum, row)
			leftSq += floats.Dot(row, row)

			cur, next := g.x[order[pos]][f], g.x[order[pos+1]][f]
			if cur == next {
				continue
			}
			nl, nr := float64(pos+1), float64(n-pos-1)
			rightSq := totalSq - leftSq
			rightDot := 0.0
			for k := range leftSum {
				d := total[k] - leftSum[k]
				rightDot += d * d
			}
			sse := (leftSq - floats.Dot(leftSum, leftSum)/nl) + (rightSq - rightDot/nr)
			if sse < bestSSE-1e-12 {
				bestSSE, feature, threshold, ok = sse, f, cur+(next-cur)/2, true
			}
		}
	}
	return feature, threshold, ok
}

// Predict walks the tree for one feature vector. The returned slice is
// shared with the tree and must not be modified.
func (t *Tree) Predict(x []float64) []float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// bootstrap draws n row indexes with replacement.
func bootstrap(n int, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}
