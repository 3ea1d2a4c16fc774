package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMeanFloat64(t *testing.T) {
	assert.Zero(t, calculateMeanFloat64(nil))
	assert.Equal(t, 2.0, calculateMeanFloat64([]float64{2}))
	assert.Equal(t, 2.5, calculateMeanFloat64([]float64{1, 2, 3, 4}))
}

func TestCalculatePopulationVariance(t *testing.T) {
	assert.Zero(t, calculatePopulationVariance(nil))
	assert.Zero(t, calculatePopulationVariance([]float64{42}), "a single observation has no spread")
	assert.Zero(t, calculatePopulationVariance([]float64{3, 3, 3}))
	// Population variance of {2, 4} is 1
	assert.Equal(t, 1.0, calculatePopulationVariance([]float64{2, 4}))
}

func TestCalculateStdDev(t *testing.T) {
	assert.Equal(t, 1.0, calculateStdDev([]float64{2, 4}))
	assert.Equal(t, 2.0, calculateStdDev([]float64{1, 5}))
}

func TestSafeRatio(t *testing.T) {
	assert.Equal(t, 2.0, safeRatio(4, 2))
	assert.Zero(t, safeRatio(4, 0))
	assert.Zero(t, safeRatio(0, 0))
}

func TestSignOf(t *testing.T) {
	assert.Equal(t, 1, signOf(0.001))
	assert.Equal(t, -1, signOf(-0.001))
	assert.Equal(t, 0, signOf(0))
}
