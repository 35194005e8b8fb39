package engine

import (
	"context"
	"fmt"

	"github.com/crimson-sun/fraudtrain/internal/engine/boost"
	"github.com/crimson-sun/fraudtrain/internal/engine/preprocess"
	"github.com/crimson-sun/fraudtrain/internal/model"
)

// Pipeline composes preprocessing and the boosted classifier:
// claims → feature matrix → P(fraud).
type Pipeline struct {
	Pre *preprocess.Preprocessor
	Clf *boost.Classifier
}

// New creates a Pipeline with the provided components.
func New(pre *preprocess.Preprocessor, clf *boost.Classifier) *Pipeline {
	return &Pipeline{Pre: pre, Clf: clf}
}

// Fit learns preprocessing state and the classifier from the dataset.
func (p *Pipeline) Fit(ctx context.Context, ds *model.Dataset) error {
	X, err := p.Pre.FitTransform(ds.Claims)
	if err != nil {
		return err
	}
	if err := p.Clf.Fit(ctx, X, ds.Labels); err != nil {
		return fmt.Errorf("engine: fit: %w", err)
	}
	return nil
}

// PredictProba returns P(fraud) for each claim.
func (p *Pipeline) PredictProba(claims []model.Claim) ([]float64, error) {
	X, err := p.Pre.Transform(claims)
	if err != nil {
		return nil, err
	}
	return p.Clf.PredictProba(X)
}

// Predict returns the 0/1 fraud label for each claim.
func (p *Pipeline) Predict(claims []model.Claim) ([]int, error) {
	X, err := p.Pre.Transform(claims)
	if err != nil {
		return nil, err
	}
	return p.Clf.Predict(X)
}

// FeatureNames returns the classifier's input column names.
func (p *Pipeline) FeatureNames() []string {
	return p.Pre.FeatureNames()
}

// Importance pairs each feature name with its normalized split gain.
func (p *Pipeline) Importance() map[string]float64 {
	names := p.FeatureNames()
	imp := p.Clf.Importance()
	out := make(map[string]float64, len(imp))
	for i, v := range imp {
		if i < len(names) {
			out[names[i]] = v
		}
	}
	return out
}
