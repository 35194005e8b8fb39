package boost

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// minSplitGain is the smallest loss reduction accepted for a split.
const minSplitGain = 1e-6

// Node is one node of a regression tree stored in a flat slice. Leaves have
// Left == -1.
type Node struct {
	Feature     int
	Threshold   float64 // x < Threshold goes left
	DefaultLeft bool    // where NaN goes
	Left        int
	Right       int
	Value       float64 // leaf weight, already scaled by the learning rate
	Gain        float64
	Cover       float64 // hessian sum
}

// Tree is a fitted regression tree over margins.
type Tree struct {
	Nodes []Node
}

// Leaf reports whether node i is a leaf.
func (t *Tree) Leaf(i int) bool {
	return t.Nodes[i].Left < 0
}

// Predict returns the leaf weight reached by row.
func (t *Tree) Predict(row []float64) float64 {
	i := 0
	for !t.Leaf(i) {
		n := &t.Nodes[i]
		v := row[n.Feature]
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				i = n.Left
			} else {
				i = n.Right
			}
		case v < n.Threshold:
			i = n.Left
		default:
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// Depth returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		if t.Leaf(i) {
			return 0
		}
		return 1 + max(walk(t.Nodes[i].Left), walk(t.Nodes[i].Right))
	}
	return walk(0)
}

// split is the best split found for one feature.
type split struct {
	feature     int
	threshold   float64
	defaultLeft bool
	gain        float64
}

// grower builds one tree from gradient statistics.
type grower struct {
	params Params
	cols   [][]float64 // column-major features
	g, h   []float64
	tree   *Tree
}

func (gr *grower) grow(ctx context.Context, rows []int) (*Tree, error) {
	gr.tree = &Tree{}
	if _, err := gr.build(ctx, rows, 0); err != nil {
		return nil, err
	}
	return gr.tree, nil
}

// build appends the subtree for rows and returns its root index.
func (gr *grower) build(ctx context.Context, rows []int, depth int) (int, error) {
	var G, H float64
	for _, r := range rows {
		G += gr.g[r]
		H += gr.h[r]
	}

	idx := len(gr.tree.Nodes)
	gr.tree.Nodes = append(gr.tree.Nodes, Node{
		Left:  -1,
		Right: -1,
		Value: -G / (H + gr.params.Lambda) * gr.params.LearningRate,
		Cover: H,
	})

	if depth >= gr.params.MaxDepth || len(rows) < 2 || H < 2*gr.params.MinChildWeight {
		return idx, nil
	}

	best, err := gr.bestSplit(ctx, rows, G, H)
	if err != nil {
		return 0, err
	}
	if best.feature < 0 || best.gain-gr.params.Gamma <= minSplitGain {
		return idx, nil
	}

	col := gr.cols[best.feature]
	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		v := col[r]
		if (math.IsNaN(v) && best.defaultLeft) || v < best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l, err := gr.build(ctx, left, depth+1)
	if err != nil {
		return 0, err
	}
	rt, err := gr.build(ctx, right, depth+1)
	if err != nil {
		return 0, err
	}

	n := &gr.tree.Nodes[idx]
	n.Feature = best.feature
	n.Threshold = best.threshold
	n.DefaultLeft = best.defaultLeft
	n.Gain = best.gain
	n.Left = l
	n.Right = rt
	n.Value = 0
	return idx, nil
}

// bestSplit searches every feature in parallel and returns the split with
// the highest gain. Ties go to the lowest feature index.
func (gr *grower) bestSplit(ctx context.Context, rows []int, G, H float64) (split, error) {
	results := make([]split, len(gr.cols))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(gr.params.workers())
	for f := range gr.cols {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[f] = gr.featureSplit(f, rows, G, H)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return split{}, err
	}

	best := split{feature: -1}
	for _, s := range results {
		if s.feature >= 0 && s.gain > best.gain {
			best = s
		}
	}
	return best, nil
}

// featureSplit scans the sorted values of feature f over rows. Rows with a
// NaN value are tried on both sides; the better side becomes the default.
func (gr *grower) featureSplit(f int, rows []int, G, H float64) split {
	col := gr.cols[f]
	lambda, minChild := gr.params.Lambda, gr.params.MinChildWeight

	valid := make([]int, 0, len(rows))
	var gNaN, hNaN float64
	for _, r := range rows {
		if math.IsNaN(col[r]) {
			gNaN += gr.g[r]
			hNaN += gr.h[r]
			continue
		}
		valid = append(valid, r)
	}
	best := split{feature: -1}
	if len(valid) < 2 {
		return best
	}
	sort.SliceStable(valid, func(a, b int) bool { return col[valid[a]] < col[valid[b]] })

	parent := G * G / (H + lambda)
	score := func(gl, hl float64) (float64, bool) {
		gR, hR := G-gl, H-hl
		if hl < minChild || hR < minChild {
			return 0, false
		}
		return 0.5 * (gl*gl/(hl+lambda) + gR*gR/(hR+lambda) - parent), true
	}

	hasNaN := len(valid) < len(rows)
	var gl, hl float64
	for s := 1; s < len(valid); s++ {
		gl += gr.g[valid[s-1]]
		hl += gr.h[valid[s-1]]
		lo, hi := col[valid[s-1]], col[valid[s]]
		if lo == hi {
			continue
		}
		thr := lo + (hi-lo)/2

		// NaN rows on the right.
		if gain, ok := score(gl, hl); ok && gain > best.gain {
			best = split{feature: f, threshold: thr, gain: gain, defaultLeft: !hasNaN && hl >= H-hl}
		}
		if hasNaN {
			if gain, ok := score(gl+gNaN, hl+hNaN); ok && gain > best.gain {
				best = split{feature: f, threshold: thr, gain: gain, defaultLeft: true}
			}
		}
	}
	return best
}
