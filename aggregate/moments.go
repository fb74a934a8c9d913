package aggregate

import "math"

// Moments accumulates count, mean and the second to fourth central moment
// sums in a single pass. The zero value is ready to use.
type Moments struct {
	n  int
	m1 float64
	m2 float64
	m3 float64
	m4 float64
}

// Add folds one observation into the accumulator
func (m *Moments) Add(x float64) {
	n1 := float64(m.n)
	m.n++
	n := float64(m.n)

	delta := x - m.m1
	dn := delta / n
	dn2 := dn * dn
	term1 := delta * dn * n1

	m.m1 += dn
	m.m4 += term1*dn2*(n*n-3*n+3) + 6*dn2*m.m2 - 4*dn*m.m3
	m.m3 += term1*dn*(n-2) - 3*dn*m.m2
	m.m2 += term1
}

// Count returns the number of observations
func (m *Moments) Count() int { return m.n }

// Mean returns the arithmetic mean; false when empty
func (m *Moments) Mean() (float64, bool) {
	if m.n == 0 {
		return 0, false
	}
	return m.m1, true
}

// Variance returns the sample (n-1) or population (n) variance. The sample
// variance needs at least two observations.
func (m *Moments) Variance(sample bool) (float64, bool) {
	n := float64(m.n)
	switch {
	case m.n == 0:
		return 0, false
	case sample && m.n < 2:
		return 0, false
	case sample:
		return m.m2 / (n - 1), true
	}
	return m.m2 / n, true
}

// StdDev is the square root of Variance
func (m *Moments) StdDev(sample bool) (float64, bool) {
	v, ok := m.Variance(sample)
	if !ok {
		return 0, false
	}
	return math.Sqrt(v), true
}

// Skewness returns the sample-adjusted or population skewness. A zero
// second moment gives NaN. The sample form needs more than two observations.
func (m *Moments) Skewness(sample bool) (float64, bool) {
	n := float64(m.n)
	switch {
	case m.n == 0:
		return 0, false
	case sample && m.n <= 2:
		return 0, false
	case m.m2 == 0:
		return math.NaN(), true
	}
	g := m.m3 / math.Pow(m.m2, 1.5)
	if sample {
		return n * math.Sqrt(n-1) / (n - 2) * g, true
	}
	return math.Sqrt(n) * g, true
}

// Kurtosis returns the sample-adjusted or population excess kurtosis. A
// zero second moment gives NaN. The sample form needs more than three
// observations.
func (m *Moments) Kurtosis(sample bool) (float64, bool) {
	n := float64(m.n)
	switch {
	case m.n == 0:
		return 0, false
	case sample && m.n <= 3:
		return 0, false
	case m.m2 == 0:
		return math.NaN(), true
	}
	ratio := m.m4 / (m.m2 * m.m2)
	if sample {
		return n*(n+1)*(n-1)/((n-2)*(n-3))*ratio - 3*(n-1)*(n-1)/((n-2)*(n-3)), true
	}
	return n*ratio - 3, true
}
