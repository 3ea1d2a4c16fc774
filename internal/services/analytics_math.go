package services

import "math"

func calculateMeanFloat64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculatePopulationVariance returns the biased variance of values around
// their mean. A single observation has zero variance by definition, which is
// what keeps the lone-quote consensus case well defined.
func calculatePopulationVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := calculateMeanFloat64(values)
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

func calculateStdDev(values []float64) float64 {
	return math.Sqrt(calculatePopulationVariance(values))
}

// safeRatio divides, substituting 0 for a zero denominator so no NaN or Inf
// ever escapes the analytics layer.
func safeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
