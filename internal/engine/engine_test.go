package engine

import (
	"context"
	"math"
	"testing"

	"github.com/crimson-sun/fraudtrain/internal/dataset"
	"github.com/crimson-sun/fraudtrain/internal/engine/boost"
	"github.com/crimson-sun/fraudtrain/internal/engine/preprocess"
	"github.com/crimson-sun/fraudtrain/internal/engine/testdata"
	"github.com/crimson-sun/fraudtrain/internal/model"
)

// newTestPipeline fits a pipeline on the embedded 40-row claims dataset.
func newTestPipeline(t *testing.T) (*Pipeline, *model.Dataset) {
	t.Helper()
	ds, err := dataset.Read(testdata.Claims())
	if err != nil {
		t.Fatalf("read claims: %v", err)
	}
	p := New(preprocess.New(100, true), boost.New(boost.DefaultParams()))
	if err := p.Fit(context.Background(), ds); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return p, ds
}

func TestPipeline_FitPredict(t *testing.T) {
	p, ds := newTestPipeline(t)

	pred, err := p.Predict(ds.Claims)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	correct := 0
	for i := range pred {
		if pred[i] == ds.Labels[i] {
			correct++
		}
	}
	if correct != ds.Len() {
		t.Errorf("training accuracy = %d/%d, want all", correct, ds.Len())
	}
}

func TestPipeline_ProbaRange(t *testing.T) {
	p, ds := newTestPipeline(t)

	proba, err := p.PredictProba(ds.Claims)
	if err != nil {
		t.Fatal(err)
	}
	if len(proba) != ds.Len() {
		t.Fatalf("len(proba) = %d, want %d", len(proba), ds.Len())
	}
	for i, v := range proba {
		if math.IsNaN(v) || v < 0 || v > 1 {
			t.Fatalf("proba[%d] = %g, want within [0, 1]", i, v)
		}
	}
}

func TestPipeline_Unseen(t *testing.T) {
	p, _ := newTestPipeline(t)

	claims := []model.Claim{
		{Amount: 35000, Age: 22, Description: "vehicle stolen, no witnesses, keys missing"},
		{Amount: 400, Age: 58, Description: "minor scratch in parking lot"},
	}
	proba, err := p.PredictProba(claims)
	if err != nil {
		t.Fatal(err)
	}
	if proba[0] <= proba[1] {
		t.Errorf("expected the theft claim to score higher: %v", proba)
	}
}

func TestPipeline_Importance(t *testing.T) {
	p, _ := newTestPipeline(t)

	imp := p.Importance()
	if len(imp) != len(p.FeatureNames()) {
		t.Fatalf("importance has %d entries, want %d", len(imp), len(p.FeatureNames()))
	}
	var sum float64
	for _, v := range imp {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("importance sums to %g, want 1", sum)
	}
}
