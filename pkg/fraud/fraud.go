package fraud

import (
	"context"
	"fmt"
	"math"

	"github.com/crimson-sun/fraudtrain/internal/artifact"
	"github.com/crimson-sun/fraudtrain/internal/engine"
	"github.com/crimson-sun/fraudtrain/internal/model"
	"github.com/crimson-sun/fraudtrain/internal/output"
	"github.com/crimson-sun/fraudtrain/internal/output/stdout"
	"github.com/crimson-sun/fraudtrain/internal/trainer"
)

// Claim is one insurance claim to score.
type Claim struct {
	Amount      float64 // NaN when unknown
	Age         float64 // NaN when unknown
	Description string
}

// Score is the classifier's verdict on a claim.
type Score struct {
	Probability float64 `json:"probability"`
	Fraud       bool    `json:"fraud"`
}

// Result summarises a training run.
type Result struct {
	RunID    string
	Accuracy float64
	AUC      float64 // NaN when the test partition holds one class
	Report   string  // classification report text
	Artifact string
}

// Train fits a pipeline on the configured dataset, evaluates it on the
// held-out rows and saves it.
func Train(ctx context.Context, opts ...Option) (Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("fraud: %w", err)
	}

	var out output.Output
	if o.report != nil {
		out = stdout.NewWriter(o.report, o.json, false, false)
	}
	sum, err := trainer.New(o.cfg, out).WithLogger(o.logger).Run(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fraud: %w", err)
	}

	res := Result{
		RunID:    sum.RunID,
		Accuracy: sum.Report.Accuracy,
		AUC:      math.NaN(),
		Report:   sum.Report.String(),
		Artifact: sum.Artifact,
	}
	if sum.AUC != nil {
		res.AUC = *sum.AUC
	}
	return res, nil
}

// Model is a fitted pipeline loaded from disk.
type Model struct {
	pipe *engine.Pipeline
	meta artifact.Meta
}

// Load reads a pipeline saved by Train.
func Load(path string) (*Model, error) {
	pipe, meta, err := artifact.Load(path)
	if err != nil {
		return nil, fmt.Errorf("fraud: %w", err)
	}
	return &Model{pipe: pipe, meta: meta}, nil
}

// ID returns the identifier of the run that produced the model.
func (m *Model) ID() string {
	return m.meta.ID
}

// Features returns the classifier's input column names.
func (m *Model) Features() []string {
	return m.pipe.FeatureNames()
}

// Score returns the fraud probability and verdict for each claim.
func (m *Model) Score(claims []Claim) ([]Score, error) {
	in := make([]model.Claim, len(claims))
	for i, c := range claims {
		in[i] = model.Claim{Amount: c.Amount, Age: c.Age, Description: c.Description}
	}
	proba, err := m.pipe.PredictProba(in)
	if err != nil {
		return nil, fmt.Errorf("fraud: score: %w", err)
	}
	out := make([]Score, len(proba))
	for i, p := range proba {
		out[i] = Score{Probability: p, Fraud: p > 0.5}
	}
	return out, nil
}
