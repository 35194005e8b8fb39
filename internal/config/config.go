package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Version is the fraudtrain release version.
const Version = "0.3.0"

// Config holds all fraudtrain configuration.
type Config struct {
	Data   DataConfig   `yaml:"data"`
	Split  SplitConfig  `yaml:"split"`
	Text   TextConfig   `yaml:"text"`
	Boost  BoostConfig  `yaml:"boost"`
	Output OutputConfig `yaml:"output"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "text", "json"
}

// DataConfig locates the training dataset.
type DataConfig struct {
	Path string `yaml:"path"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
	Stratify bool    `yaml:"stratify"`
}

// TextConfig controls the incident description vectorizer.
type TextConfig struct {
	MaxFeatures  int  `yaml:"max_features"`
	StripAccents bool `yaml:"strip_accents"`
}

// BoostConfig holds gradient boosting hyperparameters.
type BoostConfig struct {
	Rounds         int     `yaml:"rounds"`
	MaxDepth       int     `yaml:"max_depth"`
	LearningRate   float64 `yaml:"learning_rate"`
	Lambda         float64 `yaml:"lambda"`
	Gamma          float64 `yaml:"gamma"`
	MinChildWeight float64 `yaml:"min_child_weight"`
	Workers        int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// OutputConfig holds artifact and report settings.
type OutputConfig struct {
	ArtifactPath string `yaml:"artifact_path"`
	JSON         bool   `yaml:"json"`
	Pretty       bool   `yaml:"pretty"`
	Metadata     bool   `yaml:"metadata"` // write <artifact>.meta.yaml
	RunLog        string `yaml:"run_log"`          // NDJSON run summaries, empty = off
	RunLogMaxSize int64  `yaml:"run_log_max_size"` // rotate past this many bytes, 0 = never
	Progress      bool   `yaml:"progress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Data: DataConfig{Path: "data/claims.csv"},
		Split: SplitConfig{
			TestSize: 0.2,
			Seed:     42,
			Stratify: true,
		},
		Text: TextConfig{
			MaxFeatures:  100,
			StripAccents: true,
		},
		Boost: BoostConfig{
			Rounds:         100,
			MaxDepth:       6,
			LearningRate:   0.3,
			Lambda:         1,
			Gamma:          0,
			MinChildWeight: 1,
		},
		Output: OutputConfig{
			ArtifactPath: "app/model_pipeline.bin",
			Progress:     true,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads .env (if present) then FRAUD_* environment variables on top of
// the defaults.
func Load() Config {
	_ = godotenv.Load()

	d := Default()
	return Config{
		Data: DataConfig{
			Path: getenv("FRAUD_DATA_PATH", d.Data.Path),
		},
		Split: SplitConfig{
			TestSize: getenvFloat("FRAUD_TEST_SIZE", d.Split.TestSize),
			Seed:     getenvInt64("FRAUD_SEED", d.Split.Seed),
			Stratify: getenvBool("FRAUD_STRATIFY", d.Split.Stratify),
		},
		Text: TextConfig{
			MaxFeatures:  getenvInt("FRAUD_MAX_FEATURES", d.Text.MaxFeatures),
			StripAccents: getenvBool("FRAUD_STRIP_ACCENTS", d.Text.StripAccents),
		},
		Boost: BoostConfig{
			Rounds:         getenvInt("FRAUD_ROUNDS", d.Boost.Rounds),
			MaxDepth:       getenvInt("FRAUD_MAX_DEPTH", d.Boost.MaxDepth),
			LearningRate:   getenvFloat("FRAUD_LEARNING_RATE", d.Boost.LearningRate),
			Lambda:         getenvFloat("FRAUD_LAMBDA", d.Boost.Lambda),
			Gamma:          getenvFloat("FRAUD_GAMMA", d.Boost.Gamma),
			MinChildWeight: getenvFloat("FRAUD_MIN_CHILD_WEIGHT", d.Boost.MinChildWeight),
			Workers:        getenvInt("FRAUD_WORKERS", d.Boost.Workers),
		},
		Output: OutputConfig{
			ArtifactPath:  getenv("FRAUD_ARTIFACT_PATH", d.Output.ArtifactPath),
			JSON:          getenvBool("FRAUD_OUTPUT_JSON", d.Output.JSON),
			Pretty:        getenvBool("FRAUD_OUTPUT_PRETTY", d.Output.Pretty),
			Metadata:      getenvBool("FRAUD_METADATA", d.Output.Metadata),
			RunLog:        os.Getenv("FRAUD_RUN_LOG"),
			RunLogMaxSize: getenvInt64("FRAUD_RUN_LOG_MAX_SIZE", d.Output.RunLogMaxSize),
			Progress:      getenvBool("FRAUD_PROGRESS", d.Output.Progress),
		},
		LogLevel:  getenv("FRAUD_LOG_LEVEL", d.LogLevel),
		LogFormat: getenv("FRAUD_LOG_FORMAT", d.LogFormat),
	}
}

// Validate checks the configuration and returns every problem found.
func (c Config) Validate() error {
	var errs []error

	if c.Data.Path == "" {
		errs = append(errs, errors.New("data path is empty (FRAUD_DATA_PATH)"))
	} else if _, err := os.Stat(c.Data.Path); err != nil {
		errs = append(errs, fmt.Errorf("data file: %w", err))
	}
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		errs = append(errs, fmt.Errorf("test size must be in (0, 1), got %v", c.Split.TestSize))
	}
	if c.Text.MaxFeatures <= 0 {
		errs = append(errs, fmt.Errorf("max features must be positive, got %d", c.Text.MaxFeatures))
	}
	if c.Boost.Rounds <= 0 {
		errs = append(errs, fmt.Errorf("boost rounds must be positive, got %d", c.Boost.Rounds))
	}
	if c.Boost.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max depth must be positive, got %d", c.Boost.MaxDepth))
	}
	if c.Boost.LearningRate <= 0 || c.Boost.LearningRate > 1 {
		errs = append(errs, fmt.Errorf("learning rate must be in (0, 1], got %v", c.Boost.LearningRate))
	}
	if c.Boost.Lambda < 0 || c.Boost.Gamma < 0 || c.Boost.MinChildWeight < 0 {
		errs = append(errs, errors.New("lambda, gamma and min child weight must be non-negative"))
	}
	if c.Boost.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative, got %d", c.Boost.Workers))
	}
	if c.Output.ArtifactPath == "" {
		errs = append(errs, errors.New("artifact path is empty (FRAUD_ARTIFACT_PATH)"))
	}
	if c.Output.RunLogMaxSize < 0 {
		errs = append(errs, fmt.Errorf("run log max size must be non-negative, got %d", c.Output.RunLogMaxSize))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

// getenvBool accepts 1/0 and anything strconv.ParseBool does.
func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
