// Package cumdiff computes cumulative differences between subpopulations.
package cumdiff

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/gocumdiff/dists"
)

// Result holds a cumulative-difference sequence and its summary statistics.
type Result struct {
	// Cum is the sequence of cumulative differences C_k.
	Cum []float64
	// A is the sequence of cumulative normalized weights A_k, the natural
	// abscissae for plotting Cum.
	A []float64
	// Kuiper is the range of the cumulative sequence, max - min, with the
	// origin included.
	Kuiper float64
	// KolmogorovSmirnov is the maximum absolute value of the cumulative
	// sequence.
	KolmogorovSmirnov float64
	// LenScale estimates the standard deviation of the endpoint of the
	// cumulative sequence under the null hypothesis; deviations should be
	// judged relative to it.
	LenScale float64
	// ATE is the weighted average treatment effect, where the comparison
	// defines one (the endpoint of the cumulative sequence).
	ATE float64
}

// KuiperPValue returns the asymptotic P-value for the Kuiper statistic.
func (r *Result) KuiperPValue() float64 {
	return 1 - dists.Kuiper(r.Kuiper/r.LenScale)
}

// KolmogorovSmirnovPValue returns the asymptotic P-value for the
// Kolmogorov-Smirnov statistic.
func (r *Result) KolmogorovSmirnovPValue() float64 {
	return 1 - dists.KolmogorovSmirnov(r.KolmogorovSmirnov/r.LenScale)
}

// summarize fills in the Kuiper and Kolmogorov-Smirnov statistics from the
// cumulative sequence, counting the origin as part of the path.
func (r *Result) summarize() {
	max := 0.0
	min := 0.0
	ks := 0.0
	for _, c := range r.Cum {
		if c > max {
			max = c
		}
		if c < min {
			min = c
		}
		if a := math.Abs(c); a > ks {
			ks = a
		}
	}
	r.Kuiper = max - min
	r.KolmogorovSmirnov = ks
}

// accumulate builds Cum and A from per-observation differences and
// normalized weights.
func (r *Result) accumulate(diffs, weights []float64) {
	n := len(diffs)
	prods := make([]float64, n)
	for i := range diffs {
		prods[i] = diffs[i] * weights[i]
	}
	r.Cum = floats.CumSum(make([]float64, n), prods)
	r.A = floats.CumSum(make([]float64, n), weights)
}
