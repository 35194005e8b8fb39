package boost

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFitted is returned by prediction methods before Fit.
	ErrNotFitted = errors.New("boost: classifier not fitted")
	// ErrSingleClass is returned when the training labels hold one class.
	ErrSingleClass = errors.New("boost: training labels contain a single class")
)

// Params holds gradient boosting hyperparameters.
type Params struct {
	Rounds         int     `json:"rounds" yaml:"rounds"`
	MaxDepth       int     `json:"max_depth" yaml:"max_depth"`
	LearningRate   float64 `json:"learning_rate" yaml:"learning_rate"`
	Lambda         float64 `json:"lambda" yaml:"lambda"`                     // L2 regularization on leaf weights
	Gamma          float64 `json:"gamma" yaml:"gamma"`                       // minimum loss reduction to split
	MinChildWeight float64 `json:"min_child_weight" yaml:"min_child_weight"` // minimum hessian sum per child
	Workers        int     `json:"workers" yaml:"workers"`                   // parallel split search; 0 = GOMAXPROCS
}

// DefaultParams returns the standard boosting configuration.
func DefaultParams() Params {
	return Params{
		Rounds:         100,
		MaxDepth:       6,
		LearningRate:   0.3,
		Lambda:         1,
		Gamma:          0,
		MinChildWeight: 1,
	}
}

func (p Params) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Classifier is a binary gradient-boosted tree ensemble with a logistic
// objective. The fitted state is exported for encoding.
type Classifier struct {
	Params     Params
	NFeatures  int
	BaseMargin float64
	Trees      []Tree
	LogLoss    []float64 // training log-loss after each round

	// OnRound, if set, is called after each boosting round.
	OnRound func(round int, logloss float64)
}

// New returns an unfitted classifier.
func New(p Params) *Classifier {
	return &Classifier{Params: p}
}

// Fitted reports whether Fit has completed.
func (c *Classifier) Fitted() bool {
	return c.NFeatures > 0
}

// Fit trains the ensemble on X (n x p) and binary labels y. It checks ctx
// between rounds.
func (c *Classifier) Fit(ctx context.Context, X mat.Matrix, y []int) error {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.New("boost: empty training matrix")
	}
	if len(y) != n {
		return fmt.Errorf("boost: %d rows but %d labels", n, len(y))
	}
	if c.Params.Rounds <= 0 || c.Params.MaxDepth <= 0 {
		return fmt.Errorf("boost: invalid params %+v", c.Params)
	}

	var pos int
	for i, yi := range y {
		if yi != 0 && yi != 1 {
			return fmt.Errorf("boost: label %d at row %d is not 0 or 1", yi, i)
		}
		pos += yi
	}
	if pos == 0 || pos == n {
		return ErrSingleClass
	}

	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X)
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	c.NFeatures = 0
	c.Trees = make([]Tree, 0, c.Params.Rounds)
	c.LogLoss = make([]float64, 0, c.Params.Rounds)
	c.BaseMargin = logit(float64(pos) / float64(n))

	margin := make([]float64, n)
	for i := range margin {
		margin[i] = c.BaseMargin
	}
	g := make([]float64, n)
	h := make([]float64, n)
	prob := make([]float64, n)
	row := make([]float64, p)

	for round := 0; round < c.Params.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		gradients(y, margin, g, h)

		gr := &grower{params: c.Params, cols: cols, g: g, h: h}
		tree, err := gr.grow(ctx, rows)
		if err != nil {
			return err
		}
		c.Trees = append(c.Trees, *tree)

		for i := range margin {
			for j := range row {
				row[j] = cols[j][i]
			}
			margin[i] += tree.Predict(row)
			prob[i] = sigmoid(margin[i])
		}
		loss := LogLoss(y, prob)
		c.LogLoss = append(c.LogLoss, loss)
		if c.OnRound != nil {
			c.OnRound(round+1, loss)
		}
	}

	c.NFeatures = p
	return nil
}

// Margin returns the raw log-odds for each row of X.
func (c *Classifier) Margin(X mat.Matrix) ([]float64, error) {
	if !c.Fitted() {
		return nil, ErrNotFitted
	}
	n, p := X.Dims()
	if p != c.NFeatures {
		return nil, fmt.Errorf("boost: expected %d features, got %d", c.NFeatures, p)
	}
	out := make([]float64, n)
	row := make([]float64, p)
	for i := range out {
		mat.Row(row, i, X)
		m := c.BaseMargin
		for t := range c.Trees {
			m += c.Trees[t].Predict(row)
		}
		out[i] = m
	}
	return out, nil
}

// PredictProba returns P(fraud) in [0, 1] for each row of X.
func (c *Classifier) PredictProba(X mat.Matrix) ([]float64, error) {
	margin, err := c.Margin(X)
	if err != nil {
		return nil, err
	}
	for i, m := range margin {
		margin[i] = sigmoid(m)
	}
	return margin, nil
}

// Predict returns 1 where P(fraud) > 0.5, else 0. A probability of exactly
// 0.5 is legitimate.
func (c *Classifier) Predict(X mat.Matrix) ([]int, error) {
	proba, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

// Importance returns the total split gain per feature, normalized to sum
// to 1. All zeros when no tree split.
func (c *Classifier) Importance() []float64 {
	imp := make([]float64, c.NFeatures)
	var total float64
	for t := range c.Trees {
		for _, n := range c.Trees[t].Nodes {
			if n.Left >= 0 {
				imp[n.Feature] += n.Gain
				total += n.Gain
			}
		}
	}
	if total > 0 {
		for i := range imp {
			imp[i] /= total
		}
	}
	return imp
}
