package metrics

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrUndefinedAUC is returned when the labels hold a single class.
var ErrUndefinedAUC = errors.New("metrics: AUC undefined for a single class")

// AUC returns the area under the ROC curve of scores against the binary
// labels yTrue (1 = positive). Tied scores contribute half credit.
func AUC(yTrue []int, scores []float64) (float64, error) {
	if len(yTrue) != len(scores) {
		return 0, fmt.Errorf("%w: %d labels, %d scores", ErrLengthMismatch, len(yTrue), len(scores))
	}
	var pos int
	for _, y := range yTrue {
		if y == 1 {
			pos++
		}
	}
	if pos == 0 || pos == len(yTrue) {
		return 0, ErrUndefinedAUC
	}

	// stat.ROC wants scores sorted ascending with classes in the same order.
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] < scores[idx[b]] })

	y := make([]float64, len(idx))
	classes := make([]bool, len(idx))
	for i, j := range idx {
		y[i] = scores[j]
		classes[i] = yTrue[j] == 1
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
