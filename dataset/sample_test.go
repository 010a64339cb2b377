package dataset

import (
	"math"
	"math/rand"
	"testing"
)

func TestNewWeightedRejectsBadInputs(t *testing.T) {
	if _, err := New([]float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected an error for mismatched lengths")
	}
	if _, err := NewWeighted([]float64{1, 2}, []float64{1, 2}, []float64{1}); err == nil {
		t.Error("expected an error for mismatched weight length")
	}
	if _, err := NewWeighted([]float64{1, 2}, []float64{1, 2}, []float64{1, 0}); err == nil {
		t.Error("expected an error for a non-positive weight")
	}
}

func TestNormalizedWeights(t *testing.T) {
	s, err := NewWeighted([]float64{1, 2, 3}, []float64{0, 0, 0}, []float64{1, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	w := s.NormalizedWeights()
	want := []float64{.25, .25, .5}
	for i := range w {
		if math.Abs(w[i]-want[i]) > 1e-15 {
			t.Errorf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}

	s2, _ := New([]float64{1, 2}, []float64{0, 0})
	for _, v := range s2.NormalizedWeights() {
		if v != .5 {
			t.Errorf("nil weights must normalize to equal weights, got %v", v)
		}
	}
}

func TestArgsortStable(t *testing.T) {
	scores := []float64{3, 1, 2, 1}
	perm := Argsort(scores)
	want := []int{1, 3, 2, 0}
	for i := range perm {
		if perm[i] != want[i] {
			t.Fatalf("perm = %v, want %v", perm, want)
		}
	}
}

func TestInversePerm(t *testing.T) {
	perm := []int{2, 0, 1}
	inv := InversePerm(perm)
	for i, p := range perm {
		if inv[p] != i {
			t.Fatalf("inv = %v is not the inverse of %v", inv, perm)
		}
	}
}

func TestSortByScores(t *testing.T) {
	s, _ := NewWeighted(
		[]float64{3, 1, 2},
		[]float64{30, 10, 20},
		[]float64{.3, .1, .2})
	s.SortByScores()
	if !Sorted(s.Scores) {
		t.Fatal("scores not sorted")
	}
	for i := range s.Scores {
		if s.Responses[i] != 10*s.Scores[i] || s.Weights[i] != s.Scores[i]/10 {
			t.Fatal("parallel slices lost alignment")
		}
	}
}

func TestSelect(t *testing.T) {
	s, _ := New([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	sub := s.Select([]int{1, 3})
	if sub.Len() != 2 || sub.Scores[0] != 2 || sub.Responses[1] != 40 {
		t.Fatalf("Select = %+v", sub)
	}
	if sub.Weights != nil {
		t.Fatal("nil weights must stay nil")
	}
}

func TestDitherUniformMakesDistinct(t *testing.T) {
	scores := []float64{1, 1, 1, 2, 2, 3}
	rng := rand.New(rand.NewSource(543216789))
	out, err := DitherUniform(scores, rng, 1e-8)
	if err != nil {
		t.Fatalf("DitherUniform: %v", err)
	}
	if !Distinct(out) {
		t.Fatal("dithered scores are not distinct")
	}
	for i := range out {
		if math.Abs(out[i]-scores[i]) > 1e-8 {
			t.Errorf("perturbation %v exceeds the amplitude", out[i]-scores[i])
		}
	}
}

func TestDitherNormalMakesDistinct(t *testing.T) {
	scores := []float64{5, 5, 21, 21, 34, 70}
	rng := rand.New(rand.NewSource(543216789))
	out, err := DitherNormal(scores, rng, 1e-8)
	if err != nil {
		t.Fatalf("DitherNormal: %v", err)
	}
	if !Distinct(out) {
		t.Fatal("dithered scores are not distinct")
	}
	for i := range out {
		if math.Abs(out[i]-scores[i]) > 1e-4 {
			t.Errorf("perturbation %v too large", out[i]-scores[i])
		}
	}
}

func TestCountDistinct(t *testing.T) {
	if got := CountDistinct([]float64{1, 2, 2, 3, 3, 3}); got != 3 {
		t.Errorf("CountDistinct = %d, want 3", got)
	}
	if got := CountDistinct(nil); got != 0 {
		t.Errorf("CountDistinct(nil) = %d, want 0", got)
	}
}

func TestSortedPredicates(t *testing.T) {
	if !Sorted([]float64{1, 1, 2}) || StrictlySorted([]float64{1, 1, 2}) {
		t.Error("tie handling wrong")
	}
	if Sorted([]float64{2, 1}) {
		t.Error("descending reported as sorted")
	}
	if !StrictlySorted([]float64{1, 2, 3}) {
		t.Error("strictly increasing not recognized")
	}
}

func TestWeightedMean(t *testing.T) {
	got := WeightedMean([]float64{1, 3}, []float64{1, 3})
	if math.Abs(got-2.5) > 1e-15 {
		t.Errorf("WeightedMean = %v, want 2.5", got)
	}
	if !math.IsNaN(WeightedMean([]float64{1}, []float64{0})) {
		t.Error("zero total weight must yield NaN")
	}
}
