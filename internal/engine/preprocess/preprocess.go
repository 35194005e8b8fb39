package preprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/crimson-sun/fraudtrain/internal/engine/scaler"
	"github.com/crimson-sun/fraudtrain/internal/engine/vectorizer"
	"github.com/crimson-sun/fraudtrain/internal/model"
)

// Preprocessor turns claims into a numeric feature matrix: standardized
// numeric columns followed by TF-IDF columns of the incident description.
type Preprocessor struct {
	Numeric *scaler.Standard
	Text    *vectorizer.TFIDF
}

// New returns an unfitted Preprocessor.
func New(maxFeatures int, stripAccents bool) *Preprocessor {
	return &Preprocessor{
		Numeric: scaler.New(),
		Text:    vectorizer.New(maxFeatures, stripAccents),
	}
}

// Fit learns scaling statistics and the text vocabulary from claims.
func (p *Preprocessor) Fit(claims []model.Claim) error {
	if len(claims) == 0 {
		return errors.New("preprocess: no claims")
	}
	if err := p.Numeric.Fit(numericMatrix(claims)); err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if err := p.Text.Fit(descriptions(claims)); err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	return nil
}

// Transform returns one feature row per claim.
func (p *Preprocessor) Transform(claims []model.Claim) (*mat.Dense, error) {
	if len(claims) == 0 {
		return nil, errors.New("preprocess: no claims")
	}
	num, err := p.Numeric.Transform(numericMatrix(claims))
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	txt, err := p.Text.Transform(descriptions(claims))
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}

	var out mat.Dense
	out.Augment(num, txt)
	return &out, nil
}

// FitTransform fits on claims and returns their feature rows.
func (p *Preprocessor) FitTransform(claims []model.Claim) (*mat.Dense, error) {
	if err := p.Fit(claims); err != nil {
		return nil, err
	}
	return p.Transform(claims)
}

// Width returns the number of output columns.
func (p *Preprocessor) Width() int {
	return len(model.NumericColumns) + p.Text.Width()
}

// FeatureNames returns output column names, prefixed "num__" or "txt__".
func (p *Preprocessor) FeatureNames() []string {
	names := make([]string, 0, p.Width())
	for _, c := range model.NumericColumns {
		names = append(names, "num__"+c)
	}
	for _, t := range p.Text.FeatureNames() {
		names = append(names, "txt__"+t)
	}
	return names
}

func numericMatrix(claims []model.Claim) *mat.Dense {
	m := mat.NewDense(len(claims), len(model.NumericColumns), nil)
	for i, c := range claims {
		m.SetRow(i, c.Numeric())
	}
	return m
}

func descriptions(claims []model.Claim) []string {
	out := make([]string, len(claims))
	for i, c := range claims {
		out[i] = c.Description
	}
	return out
}
