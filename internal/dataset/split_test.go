package dataset

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func balancedLabels(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i % 2
	}
	return labels
}

func TestSplit_Deterministic(t *testing.T) {
	labels := balancedLabels(40)
	for _, stratify := range []bool{true, false} {
		train1, test1, err := Split(labels, 0.2, 42, stratify)
		if err != nil {
			t.Fatalf("Split: %v", err)
		}
		train2, test2, err := Split(labels, 0.2, 42, stratify)
		if err != nil {
			t.Fatalf("Split: %v", err)
		}
		if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
			t.Fatalf("stratify=%v: same seed produced different partitions", stratify)
		}
	}
}

func TestSplit_SeedChangesPartition(t *testing.T) {
	labels := balancedLabels(40)
	_, test1, _ := Split(labels, 0.2, 42, false)
	_, test2, _ := Split(labels, 0.2, 43, false)
	if reflect.DeepEqual(test1, test2) {
		t.Fatal("expected different seeds to produce different test sets")
	}
}

func TestSplit_DisjointAndComplete(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		testSize float64
		stratify bool
		wantTest int
	}{
		{"plain 40", 40, 0.2, false, 8},
		{"stratified 40", 40, 0.2, true, 8},
		{"plain 10", 10, 0.2, false, 2},
		{"stratified 10", 10, 0.2, true, 2},
		{"ceil rounding", 11, 0.2, false, 3},
		{"stratified odd", 13, 0.3, true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			train, test, err := Split(balancedLabels(tt.n), tt.testSize, 42, tt.stratify)
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if len(test) != tt.wantTest {
				t.Fatalf("expected %d test rows, got %d", tt.wantTest, len(test))
			}
			seen := make(map[int]bool, tt.n)
			for _, i := range append(append([]int(nil), train...), test...) {
				if seen[i] {
					t.Fatalf("row %d appears twice", i)
				}
				seen[i] = true
			}
			all := append(append([]int(nil), train...), test...)
			sort.Ints(all)
			for i := range all {
				if all[i] != i {
					t.Fatalf("partitions do not reconstitute rows 0..%d: %v", tt.n-1, all)
				}
			}
		})
	}
}

func TestSplit_StratifiedKeepsBothClasses(t *testing.T) {
	labels := []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	for seed := int64(0); seed < 20; seed++ {
		_, test, err := Split(labels, 0.2, seed, true)
		if err != nil {
			t.Fatalf("Split: %v", err)
		}
		var pos, neg int
		for _, i := range test {
			if labels[i] == 1 {
				pos++
			} else {
				neg++
			}
		}
		if pos != 1 || neg != 1 {
			t.Fatalf("seed %d: expected one row per class in test, got pos=%d neg=%d", seed, pos, neg)
		}
	}
}

func TestSplit_Errors(t *testing.T) {
	if _, _, err := Split(nil, 0.2, 42, false); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, _, err := Split([]int{0}, 0.2, 42, false); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall for a single row, got %v", err)
	}
	if _, _, err := Split([]int{0, 1}, 0.5, 42, true); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("expected ErrTooSmall when every class is a singleton, got %v", err)
	}
}

func TestSplit_StratifiedSingletonClassTrains(t *testing.T) {
	labels := make([]int, 20)
	labels[7] = 1

	for seed := int64(0); seed < 20; seed++ {
		train, test, err := Split(labels, 0.2, seed, true)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(test) != 4 || len(train) != 16 {
			t.Fatalf("seed %d: %d train / %d test, want 16/4", seed, len(train), len(test))
		}
		for _, i := range test {
			if i == 7 {
				t.Fatalf("seed %d: singleton row landed in the test set", seed)
			}
		}
	}
}

func TestSingletons(t *testing.T) {
	tests := []struct {
		labels []int
		want   []int
	}{
		{[]int{0, 0, 1, 1}, nil},
		{[]int{0, 0, 0, 1}, []int{1}},
		{[]int{2, 0, 1, 1}, []int{0, 2}},
	}
	for _, tt := range tests {
		got := Singletons(tt.labels)
		if len(got) != len(tt.want) {
			t.Errorf("Singletons(%v) = %v, want %v", tt.labels, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Singletons(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		}
	}
}
