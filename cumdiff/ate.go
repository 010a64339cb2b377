package cumdiff

import (
	"errors"
	"math/rand"

	"github.com/sartorproj/gocumdiff/dataset"
)

// DisjointATE estimates the weighted average treatment effect between two
// subpopulations without any assumption on their scores.
//
// The observations of both subpopulations are merged and sorted by score;
// for each observation the response differences to the nearest observations
// of the other subpopulation on the left and on the right are averaged
// (halved when both neighbors exist), weighted by the observation's
// normalized weight. Ties among the scores are broken at random, and the
// estimate is averaged over numRand random permutations applied before the
// stable sort. Subpopulation 1 gets subtracted from subpopulation 0.
func DisjointATE(r, s, weights [2][]float64, rng *rand.Rand, numRand int) (float64, error) {
	if numRand < 1 {
		return 0, errors.New("numRand must be at least 1")
	}
	for j := 0; j < 2; j++ {
		if len(r[j]) != len(s[j]) {
			return 0, errors.New("responses and scores differ in length")
		}
	}

	// Normalize the weights per subpopulation so each totals 1.
	var w [2][]float64
	for j := 0; j < 2; j++ {
		w[j] = normalized(weights[j], len(s[j]))
	}

	n := len(s[0]) + len(s[1])
	s2 := make([]float64, 0, n)
	r2 := make([]float64, 0, n)
	w2 := make([]float64, 0, n)
	pop := make([]int, 0, n)
	for j := 0; j < 2; j++ {
		s2 = append(s2, s[j]...)
		r2 = append(r2, r[j]...)
		w2 = append(w2, w[j]...)
		for range s[j] {
			pop = append(pop, j)
		}
	}

	total := 0.0
	for t := 0; t < numRand; t++ {
		// Shuffle, then sort stably, so ties land in random order.
		perm := rng.Perm(n)
		s2 = permuteFloats(s2, perm)
		r2 = permuteFloats(r2, perm)
		w2 = permuteFloats(w2, perm)
		pop = permuteInts(pop, perm)

		order := dataset.Argsort(s2)
		s2 = permuteFloats(s2, order)
		r2 = permuteFloats(r2, order)
		w2 = permuteFloats(w2, order)
		pop = permuteInts(pop, order)

		wate := 0.0
		for j := 0; j < n; j++ {
			var diff0, diff1 float64
			left, right := false, false

			for k := j; k >= 0; k-- {
				if pop[k] != pop[j] {
					left = true
					diff0 = r2[k] - r2[j]
					break
				}
			}
			for k := j; k < n; k++ {
				if pop[k] != pop[j] {
					right = true
					diff1 = r2[k] - r2[j]
					break
				}
			}
			if pop[j] == 0 {
				diff0 = -diff0
				diff1 = -diff1
			}
			if left && right {
				wate += (diff0 + diff1) * w2[j] / 2
			} else {
				wate += (diff0 + diff1) * w2[j]
			}
		}
		// The weights total 2, one unit per subpopulation.
		total += wate / 2
	}
	return total / float64(numRand), nil
}

func permuteFloats(values []float64, perm []int) []float64 {
	out := make([]float64, len(values))
	for i, p := range perm {
		out[i] = values[p]
	}
	return out
}

func permuteInts(values []int, perm []int) []int {
	out := make([]int, len(values))
	for i, p := range perm {
		out[i] = values[p]
	}
	return out
}
