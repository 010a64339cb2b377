// Package dataset provides sample containers and loaders for tabular survey
// extracts.
//
// The central type is Sample: parallel slices of scores, responses, and
// observation weights. The only structural invariant is that paired slices
// have the same length; weights, when present, must be strictly positive.
//
// # Creating and sorting a Sample
//
//	sample, err := dataset.NewWeighted(scores, responses, weights)
//	perm := sample.SortByScores() // stable, returns the applied permutation
//	inv := dataset.InversePerm(perm)
//
// The permutation and its inverse let callers map subpopulation indices
// through the sort, which the comparison routines require.
//
// # Dithering
//
// Two perturbation schemes make tied scores distinct before comparing
// subpopulations whose covariate takes repeated values:
//
//	rng := rand.New(rand.NewSource(seed))
//	scores, err := dataset.DitherUniform(scores, rng, 1e-8)
//	scores, err := dataset.DitherNormal(scores, rng, 1e-8)
//
// # Loading data
//
// Three input formats are supported, mirroring the public datasets the
// analyses target:
//
//	// Comma-separated values with a header row
//	table, err := dataset.LoadCSV("survey.csv", nil)
//	ages, err := table.FloatColumn("Age")
//
//	// Fixed-width ASCII with a codebook of column ranges
//	extract, err := dataset.LoadFixedWidth("LLCP2022.txt", codebook)
//
//	// Microsoft Excel workbooks, converted to CSV once
//	err := dataset.ConvertXLSX("survey.xlsx", "survey.csv")
//
// Download and DownloadZipMember fetch a source file over HTTP when it is
// not already present in the working directory.
package dataset
