package cumdiff

import (
	"math"
	"math/rand"
	"testing"

	"github.com/sartorproj/gocumdiff/dataset"
)

func TestSubpopCalibrated(t *testing.T) {
	// When the subpopulation is the full population, every deviation is
	// zero: each observation is compared against a bin that contains it
	// alone.
	n := 100
	scores := make([]float64, n)
	responses := make([]float64, n)
	inds := make([]int, n)
	for i := range scores {
		scores[i] = float64(i)
		responses[i] = math.Sin(float64(i) / 7)
		inds[i] = i
	}
	sample, err := dataset.New(scores, responses)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Subpop(sample, inds, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.KolmogorovSmirnov > 1e-12 {
		t.Errorf("expected zero deviation, got KS = %g", res.KolmogorovSmirnov)
	}
	if math.Abs(res.ATE) > 1e-12 {
		t.Errorf("expected zero ATE, got %g", res.ATE)
	}
}

func TestSubpopDetectsShift(t *testing.T) {
	// Subpopulation responses shifted up by a constant: the cumulative
	// sequence should drift upward and end near the shift size.
	n := 1000
	shift := 0.25
	scores := make([]float64, n)
	responses := make([]float64, n)
	var inds []int
	for i := range scores {
		scores[i] = float64(i)
		responses[i] = 0.5
		if i%2 == 0 {
			responses[i] += shift
			inds = append(inds, i)
		}
	}
	sample, err := dataset.New(scores, responses)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Subpop(sample, inds, false)
	if err != nil {
		t.Fatal(err)
	}
	// Each subpop member's bin holds itself and one neighbor, so the
	// matched mean sits halfway up the shift.
	if res.ATE < shift/4 {
		t.Errorf("ATE = %g, expected a drift of at least %g", res.ATE, shift/4)
	}
	if res.KolmogorovSmirnov < res.ATE-1e-12 {
		t.Errorf("KS = %g should be at least the endpoint %g", res.KolmogorovSmirnov, res.ATE)
	}
	if res.Kuiper < res.KolmogorovSmirnov {
		t.Errorf("Kuiper = %g should be at least KS = %g", res.Kuiper, res.KolmogorovSmirnov)
	}
}

func TestSubpopRejectsUnsorted(t *testing.T) {
	sample, err := dataset.New([]float64{3, 1, 2}, []float64{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Subpop(sample, []int{0, 1}, false); err == nil {
		t.Error("expected an error for unsorted scores")
	}
}

func TestPairedIdenticalResponses(t *testing.T) {
	n := 50
	scores := make([]float64, n)
	r := make([]float64, n)
	for i := range scores {
		scores[i] = float64(i)
		r[i] = float64(i % 2)
	}

	res, err := Paired(r, r, scores, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.KolmogorovSmirnov != 0 {
		t.Errorf("identical responses should give KS = 0, got %g", res.KolmogorovSmirnov)
	}
	if res.LenScale != 0 {
		t.Errorf("identical responses should give LenScale = 0, got %g", res.LenScale)
	}
}

func TestPairedATE(t *testing.T) {
	scores := []float64{1, 2, 3, 4}
	r0 := []float64{1, 1, 1, 1}
	r1 := []float64{0, 0, 1, 1}

	res, err := Paired(r0, r1, scores, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.ATE-0.5) > 1e-12 {
		t.Errorf("ATE = %g, want 0.5", res.ATE)
	}
	// Two of four paired differences are 1, each weighted 1/4.
	want := math.Sqrt(2.0 / 16)
	if math.Abs(res.LenScale-want) > 1e-12 {
		t.Errorf("LenScale = %g, want %g", res.LenScale, want)
	}
}

func TestDisjointIdenticalDistributions(t *testing.T) {
	// Two interleaved subpopulations drawn from the same response surface
	// should only deviate on the noise scale.
	rng := rand.New(rand.NewSource(987654321))
	n := 2000
	var r, s [2][]float64
	for j := 0; j < 2; j++ {
		s[j] = make([]float64, n)
		r[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			s[j][i] = float64(2*i+j) / float64(2*n)
			p := 0.5
			if rng.Float64() <= p {
				r[j][i] = 1
			}
		}
	}

	res, err := Disjoint(r, s, [2][]float64{}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.LenScale <= 0 {
		t.Fatalf("LenScale should be positive, got %g", res.LenScale)
	}
	// Under the null the scaled statistics rarely exceed 4.
	if res.KolmogorovSmirnov/res.LenScale > 4 {
		t.Errorf("scaled KS = %g, expected noise-level deviations",
			res.KolmogorovSmirnov/res.LenScale)
	}
	if p := res.KolmogorovSmirnovPValue(); p < 0.001 {
		t.Errorf("KS P-value = %g, expected no significant deviation", p)
	}
}

func TestDisjointDetectsShift(t *testing.T) {
	n := 2000
	var r, s [2][]float64
	for j := 0; j < 2; j++ {
		s[j] = make([]float64, n)
		r[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			s[j][i] = float64(2*i+j) / float64(2*n)
			if j == 0 {
				r[j][i] = 1
			}
		}
	}

	res, err := Disjoint(r, s, [2][]float64{}, false)
	if err != nil {
		t.Fatal(err)
	}
	// Subpopulation 1 subtracted from subpopulation 0: drift of +1.
	if math.Abs(res.Cum[len(res.Cum)-1]-1) > 0.01 {
		t.Errorf("endpoint = %g, want about 1", res.Cum[len(res.Cum)-1])
	}
	if res.KuiperPValue() > 1e-6 {
		t.Errorf("Kuiper P-value = %g, expected a decisive rejection", res.KuiperPValue())
	}
}

func TestDisjointRejectsOverlap(t *testing.T) {
	r := [2][]float64{{0, 1}, {1, 0}}
	s := [2][]float64{{1, 2}, {2, 3}}
	if _, err := Disjoint(r, s, [2][]float64{}, false); err == nil {
		t.Error("expected an error for overlapping scores")
	}
}

func TestDisjointATEConstantShift(t *testing.T) {
	rng := rand.New(rand.NewSource(543216789))
	n := 500
	var r, s [2][]float64
	for j := 0; j < 2; j++ {
		s[j] = make([]float64, n)
		r[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			s[j][i] = float64(2*i+j) / float64(2*n)
			r[j][i] = s[j][i]
			if j == 0 {
				r[j][i] += 0.3
			}
		}
	}

	ate, err := DisjointATE(r, s, [2][]float64{}, rng, 4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ate-0.3) > 0.01 {
		t.Errorf("ATE = %g, want about 0.3", ate)
	}
}

func TestEquiscoreBins(t *testing.T) {
	scores := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	responses := []float64{0, 0, 1, 1, 0, 0, 1, 1}

	bins, err := EquiscoreBins(responses, scores, nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if bins.Len() != 4 {
		t.Fatalf("expected 4 bins, got %d", bins.Len())
	}
	// Bin edges at 2, 4, 6, 8: bins hold {1,2}, {3,4}, {5,6}, {7,8}.
	wantResp := []float64{0, 1, 0, 1}
	for j, want := range wantResp {
		if math.Abs(bins.Responses[j]-want) > 1e-12 {
			t.Errorf("bin %d response = %g, want %g", j, bins.Responses[j], want)
		}
	}
}

func TestEquierrBinsEqualWeights(t *testing.T) {
	// With equal weights the bins should come out roughly equal in size.
	rng := rand.New(rand.NewSource(987654321))
	n := 1000
	scores := make([]float64, n)
	responses := make([]float64, n)
	for i := range scores {
		scores[i] = float64(i)
	}

	bins, nout, err := EquierrBins(responses, scores, nil, 10, rng)
	if err != nil {
		t.Fatal(err)
	}
	if nout < 5 || nout > 20 {
		t.Errorf("expected around 10 bins, got %d", nout)
	}
	if bins.Len() != nout {
		t.Errorf("bins.Len() = %d, want %d", bins.Len(), nout)
	}
	total := 0.0
	for _, w := range bins.Weights {
		total += w
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("bin weights should total 1, got %g", total)
	}
}
