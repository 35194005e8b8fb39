package output

import (
	"context"
	"time"

	"github.com/crimson-sun/fraudtrain/internal/metrics"
)

// Output defines the interface for run summary destinations.
type Output interface {
	Write(ctx context.Context, s Summary) error
	Close() error
}

// Summary is the outcome of one training run.
type Summary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Dataset   string        `json:"dataset"`
	Rows      int           `json:"rows"`
	TrainRows int           `json:"train_rows"`
	TestRows  int           `json:"test_rows"`
	Features  int           `json:"features"`

	Report metrics.Report `json:"report"`
	AUC    *float64       `json:"auc"` // null when the test partition holds one class

	Artifact string `json:"artifact,omitempty"`
	Metadata string `json:"metadata,omitempty"`

	// Populated only at full detail.
	LogLoss     []float64 `json:"logloss,omitempty"`
	TopFeatures []Feature `json:"top_features,omitempty"`
}

// Feature is a named feature importance.
type Feature struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}
