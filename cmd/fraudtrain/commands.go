package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/crimson-sun/fraudtrain/internal/artifact"
	"github.com/crimson-sun/fraudtrain/internal/config"
	"github.com/crimson-sun/fraudtrain/internal/dataset"
	"github.com/crimson-sun/fraudtrain/internal/logging"
	"github.com/crimson-sun/fraudtrain/internal/output"
	"github.com/crimson-sun/fraudtrain/internal/output/file"
	"github.com/crimson-sun/fraudtrain/internal/output/multi"
	"github.com/crimson-sun/fraudtrain/internal/output/stdout"
	"github.com/crimson-sun/fraudtrain/internal/trainer"
)

var CommandTrain = &cli.Command{
	Name:   "train",
	Usage:  "fit the pipeline on a claims CSV and save it",
	Flags:  trainFlags(false),
	Action: runTrain,
}

var CommandPredict = &cli.Command{
	Name:      "predict",
	Usage:     "score a claims CSV with a saved pipeline",
	ArgsUsage: "CSV",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "pipeline artifact `path`"},
		&cli.FloatFlag{Name: "threshold", Value: 0.5, Usage: "label rows fraud when the probability exceeds `cutoff`"},
	},
	Action: runPredict,
}

var CommandInspect = &cli.Command{
	Name:      "inspect",
	Usage:     "print the metadata of a saved pipeline",
	ArgsUsage: "[ARTIFACT]",
	Action:    runInspect,
}

var CommandVersion = &cli.Command{
	Name:  "version",
	Usage: "print the version information",
	Action: func(_ context.Context, _ *cli.Command) error {
		fmt.Printf("fraudtrain v%s (built with %s)\n", config.Version, runtime.Version())
		return nil
	},
}

// trainFlags returns the training flags. Local flags stay on the command
// that declares them instead of propagating to subcommands.
func trainFlags(local bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "claims CSV `path`", Local: local},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "artifact `path`", Local: local},
		&cli.Int64Flag{Name: "seed", Usage: "split `seed`", Local: local},
		&cli.FloatFlag{Name: "test-size", Usage: "held-out `fraction`", Local: local},
		&cli.IntFlag{Name: "max-features", Usage: "TF-IDF vocabulary `size`", Local: local},
		&cli.IntFlag{Name: "rounds", Usage: "boosting `rounds`", Local: local},
		&cli.IntFlag{Name: "workers", Usage: "split search `goroutines` (0 = GOMAXPROCS)", Local: local},
		&cli.BoolFlag{Name: "metadata", Usage: "write a YAML metadata sidecar next to the artifact", Local: local},
		&cli.StringFlag{Name: "run-log", Usage: "append the run summary as NDJSON to `file`", Local: local},
		&cli.Int64Flag{Name: "run-log-max-size", Usage: "rotate the run log once it would exceed `bytes` (0 = never)", Local: local},
		&cli.BoolFlag{Name: "full", Usage: "include per-round losses and top features in the report", Local: local},
		&cli.BoolFlag{Name: "no-progress", Usage: "disable the boosting progress bar", Local: local},
	}
}

// resolveConfig layers configuration sources: defaults, .env and FRAUD_*
// variables, the YAML file, then flags set on the command line.
func resolveConfig(c *cli.Command) (config.Config, bool, error) {
	cfg := config.Load()
	if path := c.String("config"); path != "" {
		if err := config.LoadFile(path, &cfg); err != nil {
			return cfg, false, err
		}
	}

	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("json") {
		cfg.Output.JSON = c.Bool("json")
	}
	if c.IsSet("data") {
		cfg.Data.Path = c.String("data")
	}
	if c.IsSet("out") {
		cfg.Output.ArtifactPath = c.String("out")
	}
	if c.IsSet("seed") {
		cfg.Split.Seed = c.Int64("seed")
	}
	if c.IsSet("test-size") {
		cfg.Split.TestSize = c.Float("test-size")
	}
	if c.IsSet("max-features") {
		cfg.Text.MaxFeatures = c.Int("max-features")
	}
	if c.IsSet("rounds") {
		cfg.Boost.Rounds = c.Int("rounds")
	}
	if c.IsSet("workers") {
		cfg.Boost.Workers = c.Int("workers")
	}
	if c.IsSet("metadata") {
		cfg.Output.Metadata = c.Bool("metadata")
	}
	if c.IsSet("run-log") {
		cfg.Output.RunLog = c.String("run-log")
	}
	if c.IsSet("run-log-max-size") {
		cfg.Output.RunLogMaxSize = c.Int64("run-log-max-size")
	}
	if c.IsSet("no-progress") {
		cfg.Output.Progress = !c.Bool("no-progress")
	}

	logging.Init(cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))
	return cfg, c.Bool("full"), nil
}

func runTrain(ctx context.Context, c *cli.Command) error {
	cfg, full, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	outs := []output.Output{stdout.New(cfg.Output.JSON, cfg.Output.Pretty, full)}
	if cfg.Output.RunLog != "" {
		runLog, err := file.New(cfg.Output.RunLog, file.WithFull(full), file.WithMaxSize(cfg.Output.RunLogMaxSize))
		if err != nil {
			return err
		}
		outs = append(outs, runLog)
	}
	out := multi.New(outs...)

	_, runErr := trainer.New(cfg, out).Run(ctx)
	return errors.Join(runErr, out.Close())
}

type prediction struct {
	Row         int     `json:"row"`
	Probability float64 `json:"probability"`
	Label       int     `json:"label"`
}

func runPredict(_ context.Context, c *cli.Command) error {
	cfg, _, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if c.Args().Len() != 1 {
		return errors.New("predict: expected exactly one CSV argument")
	}
	modelPath := cfg.Output.ArtifactPath
	if c.IsSet("model") {
		modelPath = c.String("model")
	}
	threshold := c.Float("threshold")

	pipe, _, err := artifact.Load(modelPath)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	defer f.Close()
	claims, err := dataset.ReadClaims(f)
	if err != nil {
		return err
	}

	proba, err := pipe.PredictProba(claims)
	if err != nil {
		return err
	}
	preds := make([]prediction, len(proba))
	for i, p := range proba {
		preds[i] = prediction{Row: i, Probability: p}
		if p > threshold {
			preds[i].Label = 1
		}
	}

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		if cfg.Output.Pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(preds)
	}

	w := csv.NewWriter(os.Stdout)
	w.Write([]string{"row", "probability", "label"})
	for _, p := range preds {
		w.Write([]string{
			strconv.Itoa(p.Row),
			strconv.FormatFloat(p.Probability, 'f', 6, 64),
			strconv.Itoa(p.Label),
		})
	}
	w.Flush()
	return w.Error()
}

func runInspect(_ context.Context, c *cli.Command) error {
	cfg, _, err := resolveConfig(c)
	if err != nil {
		return err
	}
	path := cfg.Output.ArtifactPath
	if c.Args().Len() > 0 {
		path = c.Args().First()
	}

	meta, err := artifact.Inspect(path)
	if err != nil {
		return err
	}

	if cfg.Output.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return enc.Close()
}
