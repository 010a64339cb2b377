// Package gocumdiff provides cumulative-difference analyses of subpopulation
// deviations.
//
// GoCumDiff compares the responses of subpopulations of a weighted data set,
// either against the full population or against each other, by accumulating
// the weighted differences of responses along increasing scores. The graph of
// the cumulative differences makes miscalibration visible as slope, and its
// range and maximum absolute value yield Kuiper and Kolmogorov-Smirnov
// statistics whose P-values follow from the distributions of the range and
// the maximum absolute value of a standard Brownian motion.
//
// # Quick Start
//
// Compare a subpopulation against the full population:
//
//	full, _ := dataset.NewWeighted(scores, responses, weights)
//	full.SortByScores()
//	res, _ := cumdiff.Subpop(full, indices, true)
//	fmt.Println(res.Kuiper/res.LenScale, res.KuiperPValue())
//
// Compare two subpopulations with disjoint scores:
//
//	res, _ := cumdiff.Disjoint(responses, scores, weights, false)
//	ate, _ := cumdiff.DisjointATE(responses, scores, weights, rng, 25)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - cumdiff: cumulative-difference sequences, statistics, binning, and the
//     average-treatment-effect estimator
//   - dists: reference distributions of Brownian-motion functionals
//   - dataset: sample containers, sorting, dithering, and data loaders
//   - plot: cumulative graphs and reliability diagrams rendered as PDF
//   - report: metrics text files
//   - brfss, dds, synthetic: the full analyses of the Behavioral Risk Factor
//     Surveillance System, the Taylor-Mickel expenditures data, and the
//     synthetic examples
//   - config, cli: configuration and the command-line front end
//
// # References
//
//   - Tygert, M. (2021). Cumulative deviation of a subpopulation from the
//     full population
//   - Arrieta-Ibarra, I., Gujral, P., Tannen, J., Tygert, M., & Xu, C.
//     (2022). Metrics of calibration for probabilistic predictions
package gocumdiff
