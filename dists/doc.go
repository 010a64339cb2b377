// Package dists provides the asymptotic null distributions used to convert
// cumulative-difference statistics into P-values.
//
// Suitably normalized, the cumulative-difference sequence of a calibrated comparison
// converges to a standard Brownian motion over [0, 1]. The Kolmogorov-Smirnov
// statistic (the maximum absolute deviation) therefore converges in
// distribution to the maximum of the absolute value of the Brownian motion,
// while the Kuiper statistic (the range of the deviations) converges to the
// range of the Brownian motion.
//
// # Usage
//
// Divide a statistic by the length scale reported alongside it, then look up
// the tail probability:
//
//	p := 1 - dists.Kuiper(kuiper/lenscale)
//	p := 1 - dists.KolmogorovSmirnov(ks/lenscale)
//
// Both functions are CDFs: they are 0 for non-positive arguments, increase
// monotonically, and tend to 1 as the argument grows.
package dists
