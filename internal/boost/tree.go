package boost

import (
	"math"
	"sort"
)

// node is one split or leaf of a regression tree. Left and Right index into
// the owning tree's node slice; leaves hold the (already shrunken) weight.
type node struct {
	Threshold float64 `json:"threshold"`
	Value     float64 `json:"value"`
	Gain      float64 `json:"gain"`
	Feature   int     `json:"feature"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
}

// tree is a depth-limited regression tree fitted to gradient/hessian pairs.
type tree struct {
	Nodes []node `json:"nodes"`
}

// predict walks the tree for one feature vector.
func (t *tree) predict(x []float64) float64 {
	idx := 0
	for {
		n := &t.Nodes[idx]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] < n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
}

// treeBuilder carries the per-round state needed to grow one tree.
type treeBuilder struct {
	x        [][]float64
	grad     []float64
	hess     []float64
	features []int
	params   Params
	nodes    []node
	// featureGain accumulates split gain per feature for importances.
	featureGain []float64
}

// build grows a tree from the sampled rows and returns it.
func (b *treeBuilder) build(rows []int) tree {
	b.nodes = b.nodes[:0]
	b.grow(rows, 0)
	return tree{Nodes: append([]node(nil), b.nodes...)}
}

// grow recursively adds a node for the given rows and returns its index.
func (b *treeBuilder) grow(rows []int, depth int) int {
	var sumG, sumH float64
	for _, r := range rows {
		sumG += b.grad[r]
		sumH += b.hess[r]
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, node{Leaf: true, Left: -1, Right: -1})

	if depth >= b.params.MaxDepth || len(rows) < 2 {
		b.nodes[idx].Value = b.leafValue(sumG, sumH)
		return idx
	}

	feat, threshold, gain, ok := b.bestSplit(rows, sumG, sumH)
	if !ok {
		b.nodes[idx].Value = b.leafValue(sumG, sumH)
		return idx
	}

	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		if b.x[r][feat] < threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	b.featureGain[feat] += gain

	b.nodes[idx] = node{
		Feature:   feat,
		Threshold: threshold,
		Gain:      gain,
		Leaf:      false,
	}
	// Children are grown after the parent is placed so their indices are
	// stable.
	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)
	b.nodes[idx].Left = leftIdx
	b.nodes[idx].Right = rightIdx

	return idx
}

// bestSplit scans the sampled feature subset with exact greedy search and
// returns the highest-gain split clearing the gamma and min-child-weight
// constraints.
func (b *treeBuilder) bestSplit(rows []int, sumG, sumH float64) (feat int, threshold, gain float64, ok bool) {
	parentScore := scoreFor(sumG, sumH, b.params.RegAlpha, b.params.RegLambda)
	bestGain := 0.0

	sorted := make([]int, len(rows))
	for _, f := range b.features {
		copy(sorted, rows)
		sort.Slice(sorted, func(i, j int) bool {
			return b.x[sorted[i]][f] < b.x[sorted[j]][f]
		})

		var gl, hl float64
		for i := 0; i < len(sorted)-1; i++ {
			r := sorted[i]
			gl += b.grad[r]
			hl += b.hess[r]

			cur := b.x[r][f]
			next := b.x[sorted[i+1]][f]
			if cur == next {
				continue
			}

			gr := sumG - gl
			hr := sumH - hl
			if hl < b.params.MinChildWeight || hr < b.params.MinChildWeight {
				continue
			}

			g := 0.5*(scoreFor(gl, hl, b.params.RegAlpha, b.params.RegLambda)+
				scoreFor(gr, hr, b.params.RegAlpha, b.params.RegLambda)-parentScore) - b.params.Gamma
			if g > bestGain {
				bestGain = g
				feat = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}

	return feat, threshold, bestGain, ok
}

// leafValue computes the L1/L2-regularized Newton step for a leaf, shrunk
// by the learning rate.
func (b *treeBuilder) leafValue(sumG, sumH float64) float64 {
	g := l1Threshold(sumG, b.params.RegAlpha)
	return -b.params.LearningRate * g / (sumH + b.params.RegLambda)
}

// scoreFor is the structure score G'^2/(H+lambda) with G' soft-thresholded
// by alpha.
func scoreFor(sumG, sumH, alpha, lambda float64) float64 {
	g := l1Threshold(sumG, alpha)
	return g * g / (sumH + lambda)
}

// l1Threshold applies the L1 soft-threshold to a gradient sum.
func l1Threshold(g, alpha float64) float64 {
	switch {
	case g > alpha:
		return g - alpha
	case g < -alpha:
		return g + alpha
	default:
		return 0
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
