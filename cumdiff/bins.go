package cumdiff

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Bins holds one reliability-diagram series: the weighted mean score and
// weighted mean response per bin, together with the total weight per bin.
// Empty bins carry NaN means.
type Bins struct {
	Scores    []float64
	Responses []float64
	Weights   []float64
}

// Len returns the number of bins.
func (b *Bins) Len() int { return len(b.Scores) }

// EquiscoreBins bins observations into nbins bins equispaced along the score
// axis up to the maximum score, and returns the weighted mean score and
// response per bin. Scores must be sorted in non-decreasing order; weights
// may be nil for equal weighting.
func EquiscoreBins(responses, scores, weights []float64, nbins int) (*Bins, error) {
	n := len(scores)
	if n == 0 || nbins < 1 {
		return nil, errors.New("need observations and at least one bin")
	}
	if len(responses) != n || (weights != nil && len(weights) != n) {
		return nil, errors.New("responses, scores, and weights must have equal lengths")
	}

	w := normalized(weights, n)
	smax := scores[n-1]

	b := &Bins{
		Scores:    make([]float64, nbins),
		Responses: make([]float64, nbins),
		Weights:   make([]float64, nbins),
	}
	rsum := make([]float64, nbins)
	ssum := make([]float64, nbins)

	j := 0
	for k := 0; k < n; k++ {
		if scores[k] > smax*float64(j+1)/float64(nbins) {
			j++
		}
		if j == nbins {
			break
		}
		rsum[j] += w[k] * responses[k]
		ssum[j] += w[k] * scores[k]
		b.Weights[j] += w[k]
	}

	for j := range b.Weights {
		if b.Weights[j] > 0 {
			b.Scores[j] = ssum[j] / b.Weights[j]
			b.Responses[j] = rsum[j] / b.Weights[j]
		} else {
			b.Scores[j] = math.NaN()
			b.Responses[j] = math.NaN()
		}
	}
	return b, nil
}

// EquierrBins partitions the observations into around nbins contiguous bins
// chosen so that the ratio of the L2 norm to the L1 norm of the weights is
// roughly the same for every bin, which equalizes the sizes of the error
// bars. It returns the weighted mean score and response per bin together
// with the realized number of bins (which need not equal nbins).
//
// The threshold for closing a bin comes from a random subsample of the
// weights, so results depend on the state of rng.
func EquierrBins(responses, scores, weights []float64, nbins int, rng *rand.Rand) (*Bins, int, error) {
	n := len(scores)
	if n == 0 || nbins < 1 {
		return nil, 0, errors.New("need observations and at least one bin")
	}
	if len(responses) != n || (weights != nil && len(weights) != n) {
		return nil, 0, errors.New("responses, scores, and weights must have equal lengths")
	}

	w := normalized(weights, n)
	bounds := equierrBounds(w, nbins, rng)

	nb := len(bounds) - 1
	b := &Bins{
		Scores:    make([]float64, nb),
		Responses: make([]float64, nb),
		Weights:   make([]float64, nb),
	}
	for j := 0; j < nb; j++ {
		var rsum, ssum, wsum float64
		for k := bounds[j]; k < bounds[j+1]; k++ {
			rsum += w[k] * responses[k]
			ssum += w[k] * scores[k]
			wsum += w[k]
		}
		b.Weights[j] = wsum
		if wsum > 0 {
			b.Scores[j] = ssum / wsum
			b.Responses[j] = rsum / wsum
		} else {
			b.Scores[j] = math.NaN()
			b.Responses[j] = math.NaN()
		}
	}
	return b, nb, nil
}

// equierrBounds partitions w into around nbins bins with roughly equal
// ratios of the L2 norm to the L1 norm of the weights per bin, returning the
// bin boundary indices (including 0 and len(w)).
func equierrBounds(w []float64, nbins int, rng *rand.Rand) []int {
	proxy := len(w) / nbins
	if proxy < 1 {
		proxy = 1
	}
	// A heuristic threshold from a random subsample of the weights.
	picked := rng.Perm(len(w))[:proxy]
	sort.Ints(picked)
	var vsum, vsum2 float64
	for _, i := range picked {
		vsum += w[i]
		vsum2 += w[i] * w[i]
	}
	t := vsum2 / (vsum * vsum)

	var bounds []int
	k := 0
	for k < len(w)-1 {
		bounds = append(bounds, k)
		k++
		s := w[k]
		ss := w[k] * w[k]
		for ss/(s*s) > t && k < len(w)-1 {
			k++
			s += w[k]
			ss += w[k] * w[k]
		}
	}
	if len(bounds) == 0 {
		bounds = append(bounds, 0)
	}
	// Fold an undersized trailing bin into its predecessor.
	if len(bounds) >= 2 && len(w)-bounds[len(bounds)-1] < (bounds[len(bounds)-1]-bounds[len(bounds)-2])/2 {
		bounds[len(bounds)-1] = len(w)
	} else {
		bounds = append(bounds, len(w))
	}
	return bounds
}
