package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crimson-sun/fraudtrain/internal/metrics"
	"github.com/crimson-sun/fraudtrain/internal/output"
)

func testSummary(runID string) output.Summary {
	r, _ := metrics.Classify([]int{0, 1, 1}, []int{0, 1, 0})
	auc := 0.5
	return output.Summary{
		RunID:       runID,
		StartedAt:   time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
		Dataset:     "data/claims.csv",
		Rows:        15,
		TrainRows:   12,
		TestRows:    3,
		Report:      r,
		AUC:         &auc,
		Artifact:    "app/model_pipeline.bin",
		LogLoss:     []float64{0.6, 0.5},
		TopFeatures: []output.Feature{{Name: "num__claim_amount", Importance: 1}},
	}
}

func TestWriteProducesValidNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := out.Write(context.Background(), testSummary("run")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		var s output.Summary
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			t.Errorf("line %d: invalid JSON: %v", i, err)
		}
		if s.TestRows != 3 {
			t.Errorf("line %d: test_rows = %d, want 3", i, s.TestRows)
		}
	}
}

func TestWriteAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "runs.jsonl")
	for _, id := range []string{"first", "second"} {
		out, err := New(path)
		if err != nil {
			t.Fatalf("New error: %v", err)
		}
		out.Write(context.Background(), testSummary(id))
		out.Close()
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"first"`) || !strings.Contains(lines[1], `"second"`) {
		t.Errorf("runs out of order:\n%s", data)
	}
}

func TestRotationTriggersAtMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")

	// Each summary line is several hundred bytes, so every write rotates.
	out, err := New(path, WithMaxSize(200))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testSummary("run")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	if _, err := os.Stat(path + ".1"); os.IsNotExist(err) {
		t.Error("expected rotated file .1 to exist")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("current file stat error: %v", err)
	}
	if info.Size() == 0 {
		t.Error("current file is empty after rotation")
	}
}

func TestCloseFlushesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	out.Write(context.Background(), testSummary("run"))
	out.Close()

	data, _ := os.ReadFile(path)
	if len(data) == 0 {
		t.Error("file is empty, Close did not flush buffered data")
	}
}

func TestDetailFields(t *testing.T) {
	tests := []struct {
		name string
		full bool
	}{
		{"standard", false},
		{"full", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "runs.jsonl")
			out, err := New(path, WithFull(tt.full))
			if err != nil {
				t.Fatalf("New error: %v", err)
			}
			out.Write(context.Background(), testSummary("run"))
			out.Close()

			data, _ := os.ReadFile(path)
			var m map[string]any
			json.Unmarshal([]byte(strings.TrimSpace(string(data))), &m)

			_, hasLoss := m["logloss"]
			_, hasTop := m["top_features"]
			if hasLoss != tt.full || hasTop != tt.full {
				t.Errorf("logloss present=%v top_features present=%v, want %v", hasLoss, hasTop, tt.full)
			}
		})
	}
}

func TestConcurrentWritesSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Write(context.Background(), testSummary("run"))
		}()
	}
	wg.Wait()
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 50 {
		t.Errorf("got %d lines, want 50", len(lines))
	}
}
