package scaler

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrNotFitted is returned by Transform before Fit.
var ErrNotFitted = errors.New("scaler: not fitted")

// Standard standardizes each column to zero mean and unit population
// variance. NaN cells are ignored by Fit and stay NaN after Transform.
// Columns with zero variance get scale 1.
type Standard struct {
	Mean  []float64
	Scale []float64
}

// New returns an unfitted Standard scaler.
func New() *Standard {
	return &Standard{}
}

// Fitted reports whether Fit has been called.
func (s *Standard) Fitted() bool {
	return s.Mean != nil
}

// Fit learns per-column mean and standard deviation from X.
func (s *Standard) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 {
		return errors.New("scaler: empty input")
	}
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		valid := make([]float64, 0, r)
		for _, v := range col {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		if len(valid) == 0 {
			s.Mean[j], s.Scale[j] = 0, 1
			continue
		}
		mean, std := stat.PopMeanStdDev(valid, nil)
		if math.IsInf(mean, 0) || math.IsNaN(mean) || math.IsInf(std, 0) || math.IsNaN(std) {
			return fmt.Errorf("scaler: column %d: non-finite statistics (mean %g, std %g)", j, mean, std)
		}
		if std == 0 {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}
	return nil
}

// Transform returns a standardized copy of X.
func (s *Standard) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	r, c := X.Dims()
	if c != len(s.Mean) {
		return nil, fmt.Errorf("scaler: expected %d columns, got %d", len(s.Mean), c)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

// FitTransform fits on X and returns its standardized copy.
func (s *Standard) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
