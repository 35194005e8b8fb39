package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrLengthMismatch is returned when label slices differ in length.
var ErrLengthMismatch = errors.New("metrics: label lengths differ")

// ClassScore holds precision, recall and F1 for one class or average.
type ClassScore struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report is a per-class classification report with overall accuracy and
// macro and support-weighted averages.
type Report struct {
	Classes     []ClassScore `json:"classes"`
	Accuracy    float64      `json:"accuracy"`
	MacroAvg    ClassScore   `json:"macro_avg"`
	WeightedAvg ClassScore   `json:"weighted_avg"`
	Support     int          `json:"support"`
}

// Classify builds a Report for yPred against yTrue. Classes are the labels
// seen in either slice, ascending. A zero denominator yields a score of 0.
func Classify(yTrue, yPred []int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("%w: %d true, %d predicted", ErrLengthMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Report{}, errors.New("metrics: no labels")
	}

	seen := make(map[int]bool)
	for i := range yTrue {
		seen[yTrue[i]] = true
		seen[yPred[i]] = true
	}
	labels := make([]int, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	sort.Ints(labels)

	r := Report{Support: len(yTrue)}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	r.Accuracy = float64(correct) / float64(len(yTrue))

	for _, l := range labels {
		var tp, fp, fn int
		for i := range yTrue {
			switch {
			case yTrue[i] == l && yPred[i] == l:
				tp++
			case yTrue[i] != l && yPred[i] == l:
				fp++
			case yTrue[i] == l && yPred[i] != l:
				fn++
			}
		}
		c := ClassScore{
			Label:     strconv.Itoa(l),
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if c.Precision+c.Recall > 0 {
			c.F1 = 2 * c.Precision * c.Recall / (c.Precision + c.Recall)
		}
		r.Classes = append(r.Classes, c)
	}

	r.MacroAvg = ClassScore{Label: "macro avg", Support: r.Support}
	r.WeightedAvg = ClassScore{Label: "weighted avg", Support: r.Support}
	k := float64(len(r.Classes))
	for _, c := range r.Classes {
		r.MacroAvg.Precision += c.Precision / k
		r.MacroAvg.Recall += c.Recall / k
		r.MacroAvg.F1 += c.F1 / k

		w := float64(c.Support) / float64(r.Support)
		r.WeightedAvg.Precision += c.Precision * w
		r.WeightedAvg.Recall += c.Recall * w
		r.WeightedAvg.F1 += c.F1 * w
	}
	return r, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String renders the report in the familiar column layout:
//
//	              precision    recall  f1-score   support
//
//	           0       1.00      0.50      0.67         2
//	...
func (r Report) String() string {
	width := len("weighted avg")
	for _, c := range r.Classes {
		width = max(width, len(c.Label))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		writeRow(&b, width, c)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Support)
	writeRow(&b, width, r.MacroAvg)
	writeRow(&b, width, r.WeightedAvg)
	return b.String()
}

func writeRow(b *strings.Builder, width int, c ClassScore) {
	fmt.Fprintf(b, "%*s  %9.2f %9.2f %9.2f %9d\n", width, c.Label, c.Precision, c.Recall, c.F1, c.Support)
}
