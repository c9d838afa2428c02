package leveler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavGolPreservesPolynomials(t *testing.T) {
	// A filter of order 3 reproduces any cubic exactly, edges included.
	n := 256
	data := make([]float64, n)
	for i := range data {
		x := float64(i)
		data[i] = 2 + 0.5*x - 0.01*x*x + 1e-4*x*x*x
	}

	smoothed := savGolSmooth(data, 32, 3)
	require.Len(t, smoothed, n)
	for i := range data {
		assert.InDelta(t, data[i], smoothed[i], 1e-6, "bin %d", i)
	}
}

func TestSavGolAttenuatesNoise(t *testing.T) {
	n := 1024
	data := make([]float64, n)
	for i := range data {
		// Constant signal plus fast alternating noise.
		data[i] = 100
		if i%2 == 0 {
			data[i] += 10
		} else {
			data[i] -= 10
		}
	}

	smoothed := savGolSmooth(data, 32, 3)

	var residual float64
	for i := 64; i < n-64; i++ {
		residual = math.Max(residual, math.Abs(smoothed[i]-100))
	}
	assert.Less(t, residual, 3.0)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3, 2, 4}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 7.0, median([]float64{7}))

	// The input must not be reordered.
	data := []float64{5, 1, 3}
	median(data)
	assert.Equal(t, []float64{5, 1, 3}, data)
}

func TestDecimate(t *testing.T) {
	data := make([]float64, 32)
	for i := range data {
		data[i] = float64(i)
	}

	out := decimate(data, 8, 4)
	assert.Equal(t, []float64{4, 12, 20, 28}, out)
}

func TestPatchNonPositive(t *testing.T) {
	data := []float64{4, -1, 0, 8, 6}
	patchNonPositive(data)
	assert.Equal(t, []float64{4, 6, 6, 8, 6}, data)

	// No positives means nothing to patch with; left as is.
	allZero := []float64{0, 0, 0}
	patchNonPositive(allZero)
	assert.Equal(t, []float64{0, 0, 0}, allZero)
}
