package leveler

import "sort"

// savGolSmooth applies local least-squares polynomial smoothing: for each
// sample, a polynomial of the given order is fitted over a window of
// neighboring samples and evaluated at the sample's position. Windows are
// clipped at the spectrum edges.
func savGolSmooth(data []float64, window, order int) []float64 {
	n := len(data)
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		lo := i - window/2
		hi := lo + window
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		out[i] = polyFitAt(data[lo:hi], i-lo, order)
	}

	return out
}

// polyFitAt fits a polynomial of the given order to the window by least
// squares and evaluates it at position at (window-relative). Positions are
// centered on at, so the fitted value is the constant term.
func polyFitAt(window []float64, at, order int) float64 {
	terms := order + 1
	if len(window) < terms {
		return window[at]
	}

	// Normal equations: moments[k] = sum(x^k), rhs[k] = sum(x^k * y).
	moments := make([]float64, 2*terms-1)
	rhs := make([]float64, terms)
	for j, y := range window {
		x := float64(j - at)
		xp := 1.0
		for k := 0; k < len(moments); k++ {
			moments[k] += xp
			if k < terms {
				rhs[k] += xp * y
			}
			xp *= x
		}
	}

	m := make([][]float64, terms)
	for r := 0; r < terms; r++ {
		m[r] = make([]float64, terms+1)
		for c := 0; c < terms; c++ {
			m[r][c] = moments[r+c]
		}
		m[r][terms] = rhs[r]
	}

	coeffs, ok := solve(m)
	if !ok {
		return window[at]
	}
	return coeffs[0]
}

// solve performs Gaussian elimination with partial pivoting on an
// augmented matrix. Returns false for a singular system.
func solve(m [][]float64) ([]float64, bool) {
	n := len(m)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(m[r][col]) > abs(m[pivot][col]) {
				pivot = r
			}
		}
		if m[pivot][col] == 0 {
			return nil, false
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := m[r][n]
		for c := r + 1; c < n; c++ {
			sum -= m[r][c] * x[c]
		}
		x[r] = sum / m[r][r]
	}
	return x, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// median returns the median of values. It copies its input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
