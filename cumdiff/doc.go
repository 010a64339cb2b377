// Package cumdiff computes cumulative differences between subpopulations,
// together with the Kuiper and Kolmogorov-Smirnov statistics that summarize
// them and the binning used for reliability diagrams.
//
// # Comparison modes
//
// Three modes cover the ways two sets of responses can relate:
//
//	// A subpopulation against the full population it belongs to
//	res, err := cumdiff.Subpop(full, inds, true)
//
//	// Two responses observed for the same individuals
//	res, err := cumdiff.Paired(r0, r1, scores, weights)
//
//	// Two subpopulations whose scores are pairwise disjoint
//	res, err := cumdiff.Disjoint(r, s, w, false)
//
// Every mode returns the cumulative sequence Cum with its abscissae A, the
// Kuiper statistic (the range of the sequence, origin included), the
// Kolmogorov-Smirnov statistic (the maximum absolute deviation), and the
// length scale the statistics should be divided by before consulting the
// reference distributions:
//
//	pKuiper := res.KuiperPValue()
//	pKS := res.KolmogorovSmirnovPValue()
//
// The slope of the cumulative sequence over an interval of A estimates the
// deviation between the populations over the corresponding scores, which is
// what makes the plots readable; the endpoint of the sequence is a weighted
// average treatment effect.
//
// # Reliability diagrams
//
// EquiscoreBins bins along equispaced score intervals; EquierrBins sizes the
// bins so every bin's error bar comes out roughly equal:
//
//	bins, err := cumdiff.EquiscoreBins(responses, scores, weights, 10)
//	bins, nout, err := cumdiff.EquierrBins(responses, scores, weights, 10, rng)
//
// # Average treatment effect
//
// DisjointATE estimates the weighted average treatment effect between two
// subpopulations by averaging nearest-neighbor response differences, with
// ties among the scores broken at random.
package cumdiff
