package boost

import "math"

// probEps keeps probabilities away from 0 and 1 inside logs.
const probEps = 1e-15

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// LogLoss returns the mean binary cross-entropy of probabilities p against
// labels y.
func LogLoss(y []int, p []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i, yi := range y {
		pi := math.Min(math.Max(p[i], probEps), 1-probEps)
		if yi == 1 {
			sum -= math.Log(pi)
		} else {
			sum -= math.Log(1 - pi)
		}
	}
	return sum / float64(len(y))
}

// gradients fills g and h with the first and second derivatives of the
// logistic loss at the given margins.
func gradients(y []int, margin, g, h []float64) {
	for i, m := range margin {
		p := sigmoid(m)
		g[i] = p - float64(y[i])
		h[i] = math.Max(p*(1-p), 1e-16)
	}
}
