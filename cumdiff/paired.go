package cumdiff

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gocumdiff/dataset"
)

// PairedResult extends Result with the shared scores of a paired comparison.
type PairedResult struct {
	Result
	Scores []float64
}

// Paired computes the cumulative differences between two responses observed
// for the same individuals, ordered by a shared score.
//
// r0 and r1 are the two responses per individual, scores must be sorted in
// non-decreasing order, and weights may be nil for equal weighting. The
// responses are assumed to be Bernoulli variates, so the paired differences
// take values in {-1, 0, 1} and the length scale follows from their absolute
// values.
func Paired(r0, r1, scores, weights []float64) (*PairedResult, error) {
	n := len(scores)
	if n == 0 {
		return nil, errors.New("empty sample")
	}
	if len(r0) != n || len(r1) != n {
		return nil, fmt.Errorf("responses must match the scores in length: %d, %d != %d",
			len(r0), len(r1), n)
	}
	if weights != nil && len(weights) != n {
		return nil, fmt.Errorf("weights must match the scores in length: %d != %d",
			len(weights), n)
	}
	if !dataset.Sorted(scores) {
		return nil, errors.New("scores must be sorted in non-decreasing order")
	}

	w := normalized(weights, n)

	diffs := make([]float64, n)
	for i := range diffs {
		diffs[i] = r0[i] - r1[i]
	}

	res := &PairedResult{Scores: scores}
	res.accumulate(diffs, w)
	res.summarize()
	res.ATE = res.Cum[n-1]

	sum := 0.0
	for i, d := range diffs {
		sum += w[i] * w[i] * math.Abs(d)
	}
	res.LenScale = math.Sqrt(sum)

	return res, nil
}

// normalized scales weights to total 1, treating nil as equal weights.
func normalized(weights []float64, n int) []float64 {
	w := make([]float64, n)
	if weights == nil {
		for i := range w {
			w[i] = 1 / float64(n)
		}
		return w
	}
	total := 0.0
	for _, v := range weights {
		total += v
	}
	for i, v := range weights {
		w[i] = v / total
	}
	return w
}
