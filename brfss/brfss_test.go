package brfss

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gocumdiff/dataset"
)

func TestCodebookValid(t *testing.T) {
	if err := Codebook().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSubpopsCounts(t *testing.T) {
	if got := len(Subpops(false)); got != 5 {
		t.Errorf("default subpops = %d, want 5", got)
	}
	if got := len(Subpops(true)); got != 13 {
		t.Errorf("kitchen-sink subpops = %d, want 13", got)
	}
}

func TestSanitize(t *testing.T) {
	got := sanitize("Ever told you have kidney disease?")
	want := "Ever_told_you_have_kidney_disease"
	if got != want {
		t.Errorf("sanitize = %q, want %q", got, want)
	}
}

func TestTuple(t *testing.T) {
	got := tuple(0.123456, 2, -1.5e-7)
	want := "(0.1235, 2, -1.5e-07)"
	if got != want {
		t.Errorf("tuple = %q, want %q", got, want)
	}
}

func TestCodedIndices(t *testing.T) {
	cb := dataset.Codebook{{Name: VarHeartAttack, Start: 1, End: 1}}
	a := &analysis{
		ext: &dataset.Extract{
			Codebook: cb,
			Columns:  [][]float64{{1, 2, 7, 1, 2, 2}},
		},
	}
	indices, err := a.codedIndices(VarHeartAttack, 1, 2)
	if err != nil {
		t.Fatalf("codedIndices: %v", err)
	}
	if len(indices[0]) != 2 || indices[0][0] != 0 || indices[0][1] != 3 {
		t.Errorf("indices[0] = %v", indices[0])
	}
	if len(indices[1]) != 3 {
		t.Errorf("indices[1] = %v", indices[1])
	}
}

func TestRemapIndices(t *testing.T) {
	scores := []float64{3, 1, 2}
	perm := dataset.Argsort(scores)
	inv := dataset.InversePerm(perm)
	out := remapIndices([2][]int{{0}, {1, 2}}, inv)
	// Element 0 (score 3) sorts to position 2; elements 1 and 2 to 0 and 1.
	if out[0][0] != 2 {
		t.Errorf("out[0] = %v", out[0])
	}
	if out[1][0] != 0 || out[1][1] != 1 {
		t.Errorf("out[1] = %v", out[1])
	}
}

func TestComparePopsWritesOutputs(t *testing.T) {
	n := 240
	scores := make([]float64, n)
	responses := make([]float64, n)
	var indices [2][]int
	for i := 0; i < n; i++ {
		scores[i] = 20 + float64(i%30)
		if i%7 < 3 {
			responses[i] = 1
		}
		switch i % 3 {
		case 0:
			indices[0] = append(indices[0], i)
		case 1:
			indices[1] = append(indices[1], i)
		}
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 + float64(i%5)
	}

	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.NBins = []int{2, 5}
	a := &analysis{cfg: cfg, log: zerolog.Nop(), weights: weights}
	cmp := popComparison{
		scores:    scores,
		responses: responses,
		indices:   indices,
		amplitude: 1e-8,
		bernoulli: true,
		subdir:    dir,
	}
	if err := a.comparePops(cmp); err != nil {
		t.Fatalf("comparePops: %v", err)
	}

	for _, name := range []string{
		"cumulative0.pdf", "cumulative1.pdf", "cumulative01.pdf",
		"equiscores0_2.pdf", "equiscores1_5.pdf", "equiscores01_2.pdf",
		"equierrs0_2.pdf", "equierrs01_5.pdf",
		"metrics.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "metrics.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	for _, key := range []string{
		"number of observations =", "subpopulation sizes =",
		"ates =", "lenscales =", "kuiper p-values =",
	} {
		if !strings.Contains(text, key) {
			t.Errorf("metrics.txt missing %q", key)
		}
	}
}
