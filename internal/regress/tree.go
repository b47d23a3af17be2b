package regress

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Tree is a CART regression tree over a single control variable. Splits
// minimize the summed squared error of the two children; leaves predict the
// mean of their training targets.
type Tree struct {
	MaxDepth int // maximum split depth; <= 0 means unlimited
	MinLeaf  int // minimum samples per leaf; <= 0 means 1

	root *treeNode
}

type treeNode struct {
	threshold   float64
	left, right *treeNode
	value       float64 // leaf prediction
}

func (n *treeNode) isLeaf() bool { return n.left == nil }

// NewTree returns a tree with the given depth and leaf-size limits.
func NewTree(maxDepth, minLeaf int) *Tree {
	return &Tree{MaxDepth: maxDepth, MinLeaf: minLeaf}
}

// Fit trains the tree on (x, y) pairs.
func (t *Tree) Fit(x, y []float64) error {
	if err := validateTraining(x, y); err != nil {
		return eris.Wrap(err, "tree")
	}
	xs, ys := sortedCopy(x, y)
	t.fitSorted(xs, ys)
	return nil
}

// fitSorted trains on pre-sorted data without degeneracy checks; callers
// that bootstrap-sample may legitimately pass a single distinct value, which
// collapses to a one-leaf tree.
func (t *Tree) fitSorted(xs, ys []float64) {
	minLeaf := t.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	// Prefix sums over the sorted targets let each candidate split's SSE be
	// evaluated in O(1): SSE = sumsq - sum^2/n.
	n := len(ys)
	sum := make([]float64, n+1)
	sumsq := make([]float64, n+1)
	for i, v := range ys {
		sum[i+1] = sum[i] + v
		sumsq[i+1] = sumsq[i] + v*v
	}
	t.root = build(xs, ys, sum, sumsq, 0, n, 0, t.MaxDepth, minLeaf)
}

// Predict returns the fitted response at x. It panics if called before Fit.
func (t *Tree) Predict(x float64) float64 {
	n := t.root
	for !n.isLeaf() {
		if x <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// build constructs the subtree over the sorted half-open range [lo, hi).
func build(xs, ys, sum, sumsq []float64, lo, hi, depth, maxDepth, minLeaf int) *treeNode {
	n := hi - lo
	leaf := &treeNode{value: (sum[hi] - sum[lo]) / float64(n)}
	if maxDepth > 0 && depth >= maxDepth {
		return leaf
	}
	if n < 2*minLeaf || xs[lo] == xs[hi-1] {
		return leaf
	}

	sse := func(a, b int) float64 {
		s := sum[b] - sum[a]
		return (sumsq[b] - sumsq[a]) - s*s/float64(b-a)
	}

	best := -1
	bestCost := sse(lo, hi)
	for i := lo + minLeaf; i <= hi-minLeaf; i++ {
		if xs[i] == xs[i-1] {
			continue // split must separate distinct control values
		}
		cost := sse(lo, i) + sse(i, hi)
		if cost < bestCost {
			bestCost = cost
			best = i
		}
	}
	if best < 0 {
		return leaf
	}

	return &treeNode{
		threshold: (xs[best-1] + xs[best]) / 2,
		left:      build(xs, ys, sum, sumsq, lo, best, depth+1, maxDepth, minLeaf),
		right:     build(xs, ys, sum, sumsq, best, hi, depth+1, maxDepth, minLeaf),
	}
}

// sortedCopy returns copies of x and y ordered by ascending x.
func sortedCopy(x, y []float64) ([]float64, []float64) {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	xs := make([]float64, len(x))
	ys := make([]float64, len(y))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
