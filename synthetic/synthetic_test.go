package synthetic

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gocumdiff/dataset"
)

func TestExampleConstructions(t *testing.T) {
	n := [2]int{200, 100}
	for iex := 0; iex < NumExamples; iex++ {
		rng := rand.New(rand.NewSource(987654321))
		s, exact, weights, err := Example(iex, n, rng)
		if err != nil {
			t.Fatalf("Example(%d): %v", iex, err)
		}
		for j := 0; j < 2; j++ {
			if len(s[j]) != n[j] || len(exact[j]) != n[j] || len(weights[j]) != n[j] {
				t.Fatalf("Example(%d): subpopulation %d has wrong lengths", iex, j)
			}
			if !dataset.StrictlySorted(s[j]) {
				t.Errorf("Example(%d): subpopulation %d scores not strictly increasing", iex, j)
			}
			for _, w := range weights[j] {
				if w < 3 || w > 5 {
					t.Errorf("Example(%d): weight %v outside [3, 5]", iex, w)
				}
			}
		}
	}
}

func TestExampleCalibrated(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s, exact, _, err := Example(3, [2]int{50, 50}, rng)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 2; j++ {
		for i := range s[j] {
			if exact[j][i] != s[j][i] {
				t.Fatalf("example 3 must be perfectly calibrated")
			}
		}
	}
}

func TestExampleRejectsOutOfRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, _, _, err := Example(4, [2]int{10, 10}, rng); err == nil {
		t.Fatal("expected an error for an unknown example number")
	}
}

func TestRunWritesOutputs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizes = [2]int{200, 100}
	cfg.NBins = []int{10}
	cfg.Examples = []int{0, 3}
	cfg.OutputDir = t.TempDir()
	if err := Run(cfg, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	dir := filepath.Join(cfg.OutputDir, "weighted", "200_100_10_0")
	for _, name := range []string{
		"cumulative.pdf", "cumulative_exact.pdf",
		"equiscores.pdf", "equierrs.pdf", "exact.pdf", "metrics.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestRunRejectsIndivisibleBins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sizes = [2]int{201, 100}
	cfg.NBins = []int{10}
	cfg.Examples = []int{0}
	cfg.OutputDir = t.TempDir()
	if err := Run(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected an error when nbins does not divide the sizes")
	}
}
