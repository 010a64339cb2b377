package cumdiff

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/gocumdiff/dataset"
)

// SubpopResult extends Result with the data needed to label the score axis
// of a subpopulation-versus-full-population plot.
type SubpopResult struct {
	Result
	// Scores are the subpopulation members' scores, aligned with Cum.
	Scores []float64
	// Matched are the bin-matched full-population mean responses f_j.
	Matched []float64
}

// Subpop computes the cumulative differences between the responses of a
// subpopulation and the matched mean responses of the full population.
//
// The full sample must be sorted by score, and inds must list the positions
// of the subpopulation members in increasing order. Every full-population
// observation contributes to the bin of the subpopulation member whose score
// is nearest to its own; the weighted mean response f_j of bin j is the
// reference the j-th subpopulation response is compared against.
//
// With bernoulli set, the length scale treats the responses as Bernoulli
// variates with success probabilities f_j; otherwise an empirical estimate
// based on successive differences of the deviations is used, which is valid
// for all response distributions.
func Subpop(full *dataset.Sample, inds []int, bernoulli bool) (*SubpopResult, error) {
	n := full.Len()
	if n == 0 {
		return nil, errors.New("empty sample")
	}
	if !dataset.Sorted(full.Scores) {
		return nil, errors.New("scores must be sorted in non-decreasing order")
	}
	m := len(inds)
	if m == 0 {
		return nil, errors.New("empty subpopulation")
	}
	for j, idx := range inds {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("subpopulation index %d out of range", idx)
		}
		if j > 0 && idx <= inds[j-1] {
			return nil, errors.New("subpopulation indices must be strictly increasing")
		}
	}

	w := full.NormalizedWeights()

	// Match every full-population observation to the nearest subpopulation
	// score and average the responses per bin.
	matched := matchedMeans(full.Scores, full.Responses, w, inds)

	// Normalize the subpopulation weights to total 1.
	sw := make([]float64, m)
	swTotal := 0.0
	for j, idx := range inds {
		sw[j] = w[idx]
		swTotal += w[idx]
	}
	for j := range sw {
		sw[j] /= swTotal
	}

	diffs := make([]float64, m)
	scores := make([]float64, m)
	for j, idx := range inds {
		diffs[j] = full.Responses[idx] - matched[j]
		scores[j] = full.Scores[idx]
	}

	res := &SubpopResult{Scores: scores, Matched: matched}
	res.accumulate(diffs, sw)
	res.summarize()
	res.ATE = res.Cum[m-1]
	res.LenScale = subpopLenScale(diffs, matched, sw, bernoulli)
	return res, nil
}

// matchedMeans assigns each full-population observation to the subpopulation
// member with the nearest score and returns the weighted mean response per
// member. Ties go to the earlier member.
func matchedMeans(scores, responses, w []float64, inds []int) []float64 {
	m := len(inds)
	sums := make([]float64, m)
	wsums := make([]float64, m)
	j := 0
	for i := range scores {
		for j < m-1 {
			mid := (scores[inds[j]] + scores[inds[j+1]]) / 2
			if scores[i] > mid {
				j++
			} else {
				break
			}
		}
		sums[j] += responses[i] * w[i]
		wsums[j] += w[i]
	}
	means := make([]float64, m)
	for k := range means {
		if wsums[k] > 0 {
			means[k] = sums[k] / wsums[k]
		} else {
			means[k] = responses[inds[k]]
		}
	}
	return means
}

func subpopLenScale(diffs, matched, sw []float64, bernoulli bool) float64 {
	if bernoulli {
		sum := 0.0
		for j, f := range matched {
			sum += sw[j] * sw[j] * f * (1 - f)
		}
		return math.Sqrt(sum)
	}

	// Successive differences of the deviations cancel any slowly varying
	// signal, leaving an estimate of twice the noise variance.
	sum := 0.0
	for j := 0; j+1 < len(diffs); j++ {
		d := diffs[j] - diffs[j+1]
		wbar := (sw[j] + sw[j+1]) / 2
		sum += wbar * wbar * d * d / 2
	}
	return math.Sqrt(sum)
}
