// Package trainer runs one training job end to end: load the claims CSV,
// split it, fit the pipeline, evaluate it on the held-out rows and save
// the artifact.
package trainer

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/crimson-sun/fraudtrain/internal/artifact"
	"github.com/crimson-sun/fraudtrain/internal/config"
	"github.com/crimson-sun/fraudtrain/internal/dataset"
	"github.com/crimson-sun/fraudtrain/internal/engine"
	"github.com/crimson-sun/fraudtrain/internal/engine/boost"
	"github.com/crimson-sun/fraudtrain/internal/engine/preprocess"
	"github.com/crimson-sun/fraudtrain/internal/metrics"
	"github.com/crimson-sun/fraudtrain/internal/model"
	"github.com/crimson-sun/fraudtrain/internal/output"
)

const topFeatures = 10

// Trainer runs training jobs and reports each run to an output.
type Trainer struct {
	cfg    config.Config
	out    output.Output
	logger *slog.Logger
}

// New creates a Trainer. out may be nil to skip reporting.
func New(cfg config.Config, out output.Output) *Trainer {
	return &Trainer{cfg: cfg, out: out, logger: slog.Default()}
}

// WithLogger replaces the logger used for stage logs.
func (t *Trainer) WithLogger(l *slog.Logger) *Trainer {
	t.logger = l
	return t
}

// Run executes a training job. The context is checked between stages and
// between boosting rounds.
func (t *Trainer) Run(ctx context.Context) (output.Summary, error) {
	start := time.Now()
	sum := output.Summary{
		RunID:     uuid.NewString(),
		StartedAt: start.UTC(),
		Dataset:   t.cfg.Data.Path,
	}
	log := t.logger.With("run", sum.RunID)

	ds, err := dataset.Load(t.cfg.Data.Path)
	if err != nil {
		return sum, err
	}
	sum.Rows = ds.Len()
	log.Info("dataset loaded", "path", t.cfg.Data.Path, "rows", ds.Len(), "classes", ds.ClassCounts())

	if t.cfg.Split.Stratify {
		for _, c := range dataset.Singletons(ds.Labels) {
			log.Warn("stratified split: class has a single row, keeping it in training", "class", c)
		}
	}
	trainIdx, testIdx, err := dataset.Split(ds.Labels, t.cfg.Split.TestSize, t.cfg.Split.Seed, t.cfg.Split.Stratify)
	if err != nil {
		return sum, fmt.Errorf("trainer: split: %w", err)
	}
	train, test := ds.Subset(trainIdx), ds.Subset(testIdx)
	sum.TrainRows, sum.TestRows = train.Len(), test.Len()
	log.Info("split", "train", train.Len(), "test", test.Len(), "seed", t.cfg.Split.Seed, "stratify", t.cfg.Split.Stratify)
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	pipe := t.newPipeline()
	bar := newRoundBar(t.cfg.Output.Progress, t.cfg.Boost.Rounds)
	pipe.Clf.OnRound = func(round int, loss float64) {
		log.Debug("boost round", "round", round, "logloss", loss)
		bar.round(round, loss)
	}
	fitStart := time.Now()
	err = pipe.Fit(ctx, train)
	bar.stop()
	if err != nil {
		return sum, err
	}
	sum.Features = len(pipe.FeatureNames())
	log.Info("pipeline fitted",
		"features", sum.Features,
		"trees", len(pipe.Clf.Trees),
		"logloss", lastLoss(pipe.Clf.LogLoss),
		"duration", time.Since(fitStart))
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	report, auc, err := t.evaluate(log, pipe, test)
	if err != nil {
		return sum, err
	}
	sum.Report = report
	sum.AUC = auc
	sum.LogLoss = pipe.Clf.LogLoss
	sum.TopFeatures = rankFeatures(pipe.Importance(), topFeatures)

	// The report goes out whether or not the save succeeds; Artifact stays
	// empty unless the pipeline was written.
	saveErr := t.save(log, &sum, pipe, train, test)
	sum.Duration = time.Since(start)
	if t.out != nil {
		if err := t.out.Write(ctx, sum); err != nil {
			return sum, errors.Join(saveErr, fmt.Errorf("trainer: report: %w", err))
		}
	}
	if saveErr != nil {
		return sum, saveErr
	}
	log.Info("run complete", "duration", sum.Duration)
	return sum, nil
}

// save writes the artifact and, when enabled, its metadata sidecar, and
// records their paths in sum.
func (t *Trainer) save(log *slog.Logger, sum *output.Summary, pipe *engine.Pipeline, train, test *model.Dataset) error {
	meta, err := artifact.Save(t.cfg.Output.ArtifactPath, pipe, artifact.Meta{
		ID:        sum.RunID,
		Version:   config.Version,
		Dataset:   t.cfg.Data.Path,
		TrainRows: train.Len(),
		TestRows:  test.Len(),
		Features:  pipe.FeatureNames(),
		Params:    pipe.Clf.Params,
		Accuracy:  sum.Report.Accuracy,
		AUC:       sum.AUC,
	})
	if err != nil {
		return err
	}
	sum.Artifact = t.cfg.Output.ArtifactPath
	log.Info("artifact saved", "path", t.cfg.Output.ArtifactPath, "checksum", meta.Checksum)

	if t.cfg.Output.Metadata {
		path, err := artifact.WriteMetadata(t.cfg.Output.ArtifactPath, meta)
		if err != nil {
			return err
		}
		sum.Metadata = path
	}
	return nil
}

func (t *Trainer) newPipeline() *engine.Pipeline {
	b := t.cfg.Boost
	params := boost.Params{
		Rounds:         b.Rounds,
		MaxDepth:       b.MaxDepth,
		LearningRate:   b.LearningRate,
		Lambda:         b.Lambda,
		Gamma:          b.Gamma,
		MinChildWeight: b.MinChildWeight,
		Workers:        b.Workers,
	}
	return engine.New(
		preprocess.New(t.cfg.Text.MaxFeatures, t.cfg.Text.StripAccents),
		boost.New(params),
	)
}

// evaluate scores the test partition. A nil AUC means it is undefined.
func (t *Trainer) evaluate(log *slog.Logger, pipe *engine.Pipeline, test *model.Dataset) (metrics.Report, *float64, error) {
	proba, err := pipe.PredictProba(test.Claims)
	if err != nil {
		return metrics.Report{}, nil, fmt.Errorf("trainer: predict: %w", err)
	}
	pred := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			pred[i] = 1
		}
	}

	report, err := metrics.Classify(test.Labels, pred)
	if err != nil {
		return metrics.Report{}, nil, fmt.Errorf("trainer: evaluate: %w", err)
	}

	var aucPtr *float64
	auc, err := metrics.AUC(test.Labels, proba)
	switch {
	case errors.Is(err, metrics.ErrUndefinedAUC):
		log.Warn("AUC undefined: test partition holds a single class", "classes", test.ClassCounts())
	case err != nil:
		return metrics.Report{}, nil, fmt.Errorf("trainer: evaluate: %w", err)
	default:
		aucPtr = &auc
	}
	log.Info("evaluated", "accuracy", report.Accuracy, "auc", output.FormatAUC(aucPtr))
	return report, aucPtr, nil
}

// rankFeatures returns the n most important features with non-zero
// importance, highest first.
func rankFeatures(imp map[string]float64, n int) []output.Feature {
	out := make([]output.Feature, 0, len(imp))
	for name, v := range imp {
		if v > 0 {
			out = append(out, output.Feature{Name: name, Importance: v})
		}
	}
	slices.SortFunc(out, func(a, b output.Feature) int {
		if c := cmp.Compare(b.Importance, a.Importance); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func lastLoss(l []float64) float64 {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1]
}
