// Package dataset provides flat-array sample containers and data loading.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Sample holds scores, responses, and observation weights as parallel slices.
// Weights may be nil, which means equal weighting.
type Sample struct {
	Scores    []float64
	Responses []float64
	Weights   []float64
}

// New creates a sample with equal weights.
func New(scores, responses []float64) (*Sample, error) {
	if len(scores) != len(responses) {
		return nil, fmt.Errorf("scores and responses must have the same length: %d != %d",
			len(scores), len(responses))
	}
	return &Sample{Scores: scores, Responses: responses}, nil
}

// NewWeighted creates a sample with explicit observation weights.
func NewWeighted(scores, responses, weights []float64) (*Sample, error) {
	s, err := New(scores, responses)
	if err != nil {
		return nil, err
	}
	if len(weights) != len(scores) {
		return nil, fmt.Errorf("weights must have the same length as scores: %d != %d",
			len(weights), len(scores))
	}
	for _, w := range weights {
		if w <= 0 {
			return nil, errors.New("weights must be strictly positive")
		}
	}
	s.Weights = weights
	return s, nil
}

// Len returns the number of observations.
func (s *Sample) Len() int {
	return len(s.Scores)
}

// NormalizedWeights returns the weights scaled to total 1. A nil weight slice
// yields equal weights 1/n.
func (s *Sample) NormalizedWeights() []float64 {
	n := s.Len()
	w := make([]float64, n)
	if s.Weights == nil {
		for i := range w {
			w[i] = 1 / float64(n)
		}
		return w
	}
	total := floats.Sum(s.Weights)
	for i, v := range s.Weights {
		w[i] = v / total
	}
	return w
}

// Argsort returns the permutation that stably sorts the scores in
// non-decreasing order.
func Argsort(scores []float64) []int {
	perm := make([]int, len(scores))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return scores[perm[a]] < scores[perm[b]]
	})
	return perm
}

// InversePerm returns the inverse of a permutation.
func InversePerm(perm []int) []int {
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv
}

// Permute returns a copy of values rearranged so that the result at position
// i is values[perm[i]].
func Permute(values []float64, perm []int) []float64 {
	out := make([]float64, len(values))
	for i, p := range perm {
		out[i] = values[p]
	}
	return out
}

// SortByScores sorts the sample in place by score, stably, and returns the
// permutation that was applied.
func (s *Sample) SortByScores() []int {
	perm := Argsort(s.Scores)
	s.Scores = Permute(s.Scores, perm)
	s.Responses = Permute(s.Responses, perm)
	if s.Weights != nil {
		s.Weights = Permute(s.Weights, perm)
	}
	return perm
}

// Select returns a new sample containing the observations at the given
// indices, in order.
func (s *Sample) Select(indices []int) *Sample {
	out := &Sample{
		Scores:    make([]float64, len(indices)),
		Responses: make([]float64, len(indices)),
	}
	if s.Weights != nil {
		out.Weights = make([]float64, len(indices))
	}
	for i, idx := range indices {
		out.Scores[i] = s.Scores[idx]
		out.Responses[i] = s.Responses[idx]
		if s.Weights != nil {
			out.Weights[i] = s.Weights[idx]
		}
	}
	return out
}

// Copy creates a deep copy of the sample.
func (s *Sample) Copy() *Sample {
	out := &Sample{
		Scores:    append([]float64(nil), s.Scores...),
		Responses: append([]float64(nil), s.Responses...),
	}
	if s.Weights != nil {
		out.Weights = append([]float64(nil), s.Weights...)
	}
	return out
}

// DitherUniform perturbs the scores by amplitude-scaled offsets derived from a
// random permutation, so that all scores become pairwise distinct while
// staying within amplitude of their original values. This reproduces the
// perturbation used when comparing subpopulations whose covariate takes
// repeated values.
func DitherUniform(scores []float64, rng *rand.Rand, amplitude float64) ([]float64, error) {
	n := len(scores)
	out := make([]float64, n)
	perm := rng.Perm(n)
	for i, p := range perm {
		out[i] = scores[i] + (2*float64(p)/float64(n)-1)*amplitude
	}
	if !Distinct(out) {
		return nil, errors.New("dithering failed to make the scores distinct")
	}
	return out, nil
}

// DitherNormal perturbs the scores with centered Gaussian noise scaled by the
// maximum score, as used for integer-valued covariates such as ages.
func DitherNormal(scores []float64, rng *rand.Rand, scale float64) ([]float64, error) {
	max := floats.Max(scores)
	out := make([]float64, len(scores))
	for i, v := range scores {
		out[i] = v + rng.NormFloat64()*max*scale
	}
	if !Distinct(out) {
		return nil, errors.New("dithering failed to make the scores distinct")
	}
	return out, nil
}

// Distinct reports whether all values are pairwise distinct.
func Distinct(values []float64) bool {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return false
		}
	}
	return true
}

// CountDistinct returns the number of distinct values.
func CountDistinct(values []float64) int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	count := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			count++
		}
	}
	return count
}

// Sorted reports whether the values are in non-decreasing order.
func Sorted(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return true
}

// StrictlySorted reports whether the values are in strictly increasing order.
func StrictlySorted(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

// WeightedMean returns the weighted arithmetic mean of values. It returns NaN
// when the total weight is zero.
func WeightedMean(values, weights []float64) float64 {
	num := 0.0
	den := 0.0
	for i, v := range values {
		num += v * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}
