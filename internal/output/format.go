package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// FormatSummary returns a copy of the summary with detail fields stripped
// unless full is set.
func FormatSummary(s Summary, full bool) Summary {
	if !full {
		s.LogLoss = nil
		s.TopFeatures = nil
	}
	return s
}

// WriteText renders the summary as the plain-text run report. The save
// confirmation is printed last, and only when the summary names a saved
// artifact.
func WriteText(w io.Writer, s Summary) error {
	var b strings.Builder
	b.WriteString(s.Report.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "AUC Score: %s\n", FormatAUC(s.AUC))
	if len(s.LogLoss) > 0 {
		fmt.Fprintf(&b, "Final training logloss: %.6f (%d rounds)\n", s.LogLoss[len(s.LogLoss)-1], len(s.LogLoss))
	}
	if len(s.TopFeatures) > 0 {
		b.WriteString("Top features:\n")
		for _, f := range s.TopFeatures {
			fmt.Fprintf(&b, "  %-32s %.4f\n", f.Name, f.Importance)
		}
	}
	if s.Artifact != "" {
		fmt.Fprintf(&b, "Model saved to %s\n", s.Artifact)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatAUC prints an AUC the way a float literal reads ("0.875", "1.0"),
// or "NaN" when undefined.
func FormatAUC(auc *float64) string {
	if auc == nil || math.IsNaN(*auc) {
		return "NaN"
	}
	s := strconv.FormatFloat(*auc, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
