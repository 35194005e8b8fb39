package multi

import (
	"context"
	"errors"
	"testing"

	"github.com/crimson-sun/fraudtrain/internal/output"
)

// mockOutput records calls for test assertions.
type mockOutput struct {
	runs   []output.Summary
	closed bool
	err    error // if set, Write and Close return this error
}

func (m *mockOutput) Write(_ context.Context, s output.Summary) error {
	m.runs = append(m.runs, s)
	return m.err
}

func (m *mockOutput) Close() error {
	m.closed = true
	return m.err
}

func testSummary(runID string) output.Summary {
	return output.Summary{RunID: runID, Rows: 10, TrainRows: 8, TestRows: 2, Artifact: "model.bin"}
}

func TestFanOutDeliversToAll(t *testing.T) {
	a := &mockOutput{}
	b := &mockOutput{}
	c := &mockOutput{}
	m := New(a, b, c)

	if err := m.Write(context.Background(), testSummary("run-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, out := range []*mockOutput{a, b, c} {
		if len(out.runs) != 1 {
			t.Fatalf("output %d: got %d summaries, want 1", i, len(out.runs))
		}
		if out.runs[0].RunID != "run-1" {
			t.Errorf("output %d: got run %q, want %q", i, out.runs[0].RunID, "run-1")
		}
	}
}

func TestErrorDoesNotPreventDelivery(t *testing.T) {
	failing := &mockOutput{err: errors.New("disk full")}
	healthy := &mockOutput{}
	m := New(failing, healthy)

	err := m.Write(context.Background(), testSummary("run-2"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(healthy.runs) != 1 {
		t.Fatalf("healthy output got %d summaries, want 1", len(healthy.runs))
	}
	if len(failing.runs) != 1 {
		t.Fatalf("failing output got %d summaries, want 1", len(failing.runs))
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	a := &mockOutput{err: errors.New("err-a")}
	b := &mockOutput{err: errors.New("err-b")}
	m := New(a, b)

	err := m.Close()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !a.closed || !b.closed {
		t.Error("Close should be called on all outputs even when errors occur")
	}
}

func TestNilOutputsSkipped(t *testing.T) {
	inner := &mockOutput{}
	m := New(nil, inner, nil)

	if err := m.Write(context.Background(), testSummary("run-3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.runs) != 1 || !inner.closed {
		t.Error("single wrapped output did not receive the write and close")
	}
}
