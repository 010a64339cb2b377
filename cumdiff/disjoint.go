package cumdiff

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gocumdiff/dataset"
)

// DisjointResult extends Result with the staggered bin scores of a
// disjoint-subpopulations comparison.
type DisjointResult struct {
	Result
	// Scores are the staggered weighted-mean scores of the bins, aligned
	// with Cum; they label the score axis of the plot.
	Scores []float64
	// N is the length of the staggered cumulative sequence.
	N int
}

// Disjoint computes the cumulative differences between the responses of two
// subpopulations whose scores are pairwise disjoint.
//
// Each scores slice must be strictly increasing and the two sets of scores
// must not intersect. The two subpopulations' observations are merged by
// score; maximal runs from the same subpopulation are collapsed into bins of
// weighted mean response and score; the binned values are staggered and the
// differences between each bin and the two flanking bins of the other
// subpopulation are averaged into the cumulative sequence. Subpopulation 1 is
// subtracted from subpopulation 0.
//
// With probs set, the scores are taken to be success probabilities of
// Bernoulli variates when estimating the length scale; otherwise an
// empirical estimate from successive differences is used.
func Disjoint(r, s, weights [2][]float64, probs bool) (*DisjointResult, error) {
	for j := 0; j < 2; j++ {
		if len(s[j]) == 0 {
			return nil, fmt.Errorf("subpopulation %d is empty", j)
		}
		if len(r[j]) != len(s[j]) {
			return nil, fmt.Errorf("subpopulation %d: responses and scores differ in length", j)
		}
		if weights[j] != nil && len(weights[j]) != len(s[j]) {
			return nil, fmt.Errorf("subpopulation %d: weights and scores differ in length", j)
		}
		if !dataset.StrictlySorted(s[j]) {
			return nil, fmt.Errorf("subpopulation %d: scores must be strictly increasing", j)
		}
	}
	merged := append(append([]float64(nil), s[0]...), s[1]...)
	if dataset.CountDistinct(merged) != len(merged) {
		return nil, errors.New("the two subpopulations' scores must be disjoint")
	}

	// Normalize the weights so that both subpopulations jointly total 1.
	var w [2][]float64
	total := 0.0
	for j := 0; j < 2; j++ {
		w[j] = make([]float64, len(s[j]))
		for i := range w[j] {
			if weights[j] == nil {
				w[j][i] = 1
			} else {
				if weights[j][i] <= 0 {
					return nil, errors.New("weights must be strictly positive")
				}
				w[j][i] = weights[j][i]
			}
			total += w[j][i]
		}
	}
	for j := 0; j < 2; j++ {
		for i := range w[j] {
			w[j][i] /= total
		}
	}

	// Merge the scores, tagging each with its subpopulation of origin.
	tags, idx := mergeTags(s[0], s[1])

	// Collapse maximal same-subpopulation runs into weighted bin means of
	// responses and scores, and into mean weights.
	var b, t, w2 [2][]float64
	for j := 0; j < 2; j++ {
		b[j] = binWeightedMeans(r[j], tags, idx, j, w[j])
		t[j] = binWeightedMeans(s[j], tags, idx, j, w[j])
		w2[j] = binMeans(w[j], tags, idx, j)
	}

	first := tags[0]
	other := 1 - first

	// Stagger the bin scores from the two subpopulations.
	t01 := make([]float64, len(t[0])+len(t[1]))
	for k := range t01 {
		if k%2 == 0 {
			t01[k] = t[first][k/2]
		} else {
			t01[k] = t[other][k/2]
		}
	}
	if !dataset.StrictlySorted(t01) {
		return nil, errors.New("staggered bin scores are not increasing")
	}

	// Average the differences between each bin and the two flanking bins of
	// the other subpopulation, weighting by the mean weights of the bins
	// involved.
	la0 := min(len(b[first])-1, len(b[other]))
	la1 := min(len(b[first])-1, len(b[other])-1)
	a0 := make([]float64, la0)
	w0 := make([]float64, la0)
	for k := 0; k < la0; k++ {
		a0[k] = ((b[first][k] - b[other][k]) + (b[first][k+1] - b[other][k])) / 2
		w0[k] = (w2[first][k] + 2*w2[other][k] + w2[first][k+1]) / 4
	}
	a1 := make([]float64, la1)
	w1 := make([]float64, la1)
	for k := 0; k < la1; k++ {
		a1[k] = ((b[first][k+1] - b[other][k]) + (b[first][k+1] - b[other][k+1])) / 2
		w1[k] = (w2[other][k] + 2*w2[first][k+1] + w2[other][k+1]) / 4
	}

	a := make([]float64, la0+la1)
	w01 := make([]float64, la0+la1)
	for k := range a {
		if k%2 == 0 {
			a[k] = a0[k/2]
			w01[k] = w0[k/2]
		} else {
			a[k] = a1[k/2]
			w01[k] = w1[k/2]
		}
	}
	// Subpopulation 1 gets subtracted from subpopulation 0, not the reverse.
	if first == 1 {
		for k := range a {
			a[k] = -a[k]
		}
	}

	wtot := 0.0
	for _, v := range w01 {
		wtot += v
	}
	for k := range w01 {
		w01[k] /= wtot
	}

	res := &DisjointResult{N: len(a)}
	res.accumulate(a, w01)
	res.summarize()
	res.Scores = t01[:len(a)]
	res.LenScale = disjointLenScale(a, w01, res.Scores, probs)
	return res, nil
}

// mergeTags merges two strictly increasing arrays, returning for each merged
// position the array of origin (0 or 1) and the index within that array.
func mergeTags(a, b []float64) (tags, idx []int) {
	n := len(a) + len(b)
	tags = make([]int, n)
	idx = make([]int, n)
	ia, ib := 0, 0
	for k := 0; k < n; k++ {
		switch {
		case ia == len(a):
			tags[k], idx[k] = 1, ib
			ib++
		case ib == len(b):
			tags[k], idx[k] = 0, ia
			ia++
		case a[ia] < b[ib]:
			tags[k], idx[k] = 0, ia
			ia++
		default:
			tags[k], idx[k] = 1, ib
			ib++
		}
	}
	return tags, idx
}

// binWeightedMeans averages the values of vals over maximal runs of merged
// positions tagged with key, weighting by w.
func binWeightedMeans(vals []float64, tags, idx []int, key int, w []float64) []float64 {
	var bins []float64
	sum, wsum := 0.0, 0.0
	inRun := false
	for k := range tags {
		if tags[k] == key {
			sum += vals[idx[k]] * w[idx[k]]
			wsum += w[idx[k]]
			inRun = true
		} else if inRun {
			bins = append(bins, sum/wsum)
			sum, wsum = 0, 0
			inRun = false
		}
	}
	if inRun {
		bins = append(bins, sum/wsum)
	}
	return bins
}

// binMeans averages the values of vals over maximal runs of merged positions
// tagged with key, without weighting.
func binMeans(vals []float64, tags, idx []int, key int) []float64 {
	var bins []float64
	sum := 0.0
	count := 0
	for k := range tags {
		if tags[k] == key {
			sum += vals[idx[k]]
			count++
		} else if count > 0 {
			bins = append(bins, sum/float64(count))
			sum, count = 0, 0
		}
	}
	if count > 0 {
		bins = append(bins, sum/float64(count))
	}
	return bins
}

func disjointLenScale(a, w01, t01 []float64, probs bool) float64 {
	var lenscale float64
	if probs {
		sum := 0.0
		for k, t := range t01 {
			sum += w01[k] * w01[k] * t * (1 - t)
		}
		lenscale = math.Sqrt(sum)
	} else {
		// The division by 16 compensates for the doubling of the weights
		// in wa and for the pairing of adjacent entries.
		sum := 0.0
		for k := 0; k+1 < len(a); k++ {
			da := a[k+1] - a[k]
			wa := w01[k+1] + w01[k]
			sum += da * da * wa * wa
		}
		lenscale = math.Sqrt(sum / 16)
	}
	// Adjust for the dependence between even and odd entries of the
	// staggered sequence, and for differencing two independent
	// subpopulations.
	lenscale *= math.Sqrt2
	lenscale *= math.Sqrt2
	return lenscale
}
