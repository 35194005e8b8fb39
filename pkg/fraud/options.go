package fraud

import (
	"io"
	"log/slog"

	"github.com/crimson-sun/fraudtrain/internal/config"
)

type options struct {
	cfg    config.Config
	report io.Writer
	json   bool
	logger *slog.Logger
}

// Option configures a training run.
type Option func(*options)

// WithData sets the claims CSV path. Default: data/claims.csv.
func WithData(path string) Option {
	return func(o *options) { o.cfg.Data.Path = path }
}

// WithArtifact sets where the fitted pipeline is written.
// Default: app/model_pipeline.bin.
func WithArtifact(path string) Option {
	return func(o *options) { o.cfg.Output.ArtifactPath = path }
}

// WithSplit sets the held-out fraction and the shuffle seed.
// Default: 0.2 and 42.
func WithSplit(testSize float64, seed int64) Option {
	return func(o *options) {
		o.cfg.Split.TestSize = testSize
		o.cfg.Split.Seed = seed
	}
}

// WithMaxFeatures sets the TF-IDF vocabulary size. Default: 100.
func WithMaxFeatures(n int) Option {
	return func(o *options) { o.cfg.Text.MaxFeatures = n }
}

// WithBoosting sets the number of rounds, tree depth and learning rate.
// Default: 100, 6, 0.3.
func WithBoosting(rounds, maxDepth int, learningRate float64) Option {
	return func(o *options) {
		o.cfg.Boost.Rounds = rounds
		o.cfg.Boost.MaxDepth = maxDepth
		o.cfg.Boost.LearningRate = learningRate
	}
}

// WithWorkers bounds the goroutines used by split search. 0 = GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.cfg.Boost.Workers = n }
}

// WithMetadata also writes a YAML metadata sidecar next to the artifact.
func WithMetadata() Option {
	return func(o *options) { o.cfg.Output.Metadata = true }
}

// WithReport writes the evaluation report to w, as text or JSON.
func WithReport(w io.Writer, asJSON bool) Option {
	return func(o *options) {
		o.report = w
		o.json = asJSON
	}
}

// WithLogger sets the logger for stage logs. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func defaultOptions() options {
	cfg := config.Default()
	cfg.Output.Progress = false
	return options{cfg: cfg, logger: slog.Default()}
}
