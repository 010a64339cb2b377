// Package dists provides reference distributions for cumulative-difference tests.
package dists

import "math"

const (
	maxTerms = 1000
	tol      = 1e-16
)

// KolmogorovSmirnov evaluates the cumulative distribution function of the
// maximum of the absolute value of the standard Brownian motion over [0, 1].
// This is the asymptotic null distribution of the Kolmogorov-Smirnov statistic
// of a cumulative-difference sequence, after division by the length scale.
func KolmogorovSmirnov(x float64) float64 {
	if x <= 0 {
		return 0
	}

	// (4/pi) * sum over odd k of (-1)^((k-1)/2)/k * exp(-k^2 pi^2 / (8 x^2))
	c := math.Pi * math.Pi / (8 * x * x)
	sum := 0.0
	sign := 1.0
	for j := 0; j < maxTerms; j++ {
		k := float64(2*j + 1)
		term := sign / k * math.Exp(-k*k*c)
		sum += term
		if math.Abs(term) < tol {
			break
		}
		sign = -sign
	}

	cdf := 4 / math.Pi * sum
	return clamp01(cdf)
}

// Kuiper evaluates the cumulative distribution function of the range
// (maximum minus minimum) of the standard Brownian motion over [0, 1].
// This is the asymptotic null distribution of the Kuiper statistic of a
// cumulative-difference sequence, after division by the length scale.
func Kuiper(x float64) float64 {
	if x <= 0 {
		return 0
	}

	// 1 - 4 * sum over k >= 1 of (-1)^(k-1) * k * erfc(k x / sqrt(2)),
	// from the density of the range, 8 * sum of (-1)^(k-1) k^2 phi(k x),
	// due to Feller (1951).
	sum := 0.0
	sign := 1.0
	for k := 1; k <= maxTerms; k++ {
		term := sign * float64(k) * math.Erfc(float64(k)*x/math.Sqrt2)
		sum += term
		if math.Abs(term) < tol {
			break
		}
		sign = -sign
	}

	return clamp01(1 - 4*sum)
}

// clamp01 guards against the truncated series drifting out of [0, 1].
func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
