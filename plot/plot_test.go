package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestCumulativeWritesPDF(t *testing.T) {
	n := 100
	cum := make([]float64, n)
	a := make([]float64, n)
	scores := make([]float64, n)
	for i := range cum {
		a[i] = float64(i+1) / float64(n)
		cum[i] = 0.1 * math.Sin(2*math.Pi*a[i])
		scores[i] = a[i]
	}
	path := filepath.Join(t.TempDir(), "cumulative.pdf")
	if err := Cumulative(cum, a, scores, 0.05, CumulativeConfig{MajorTicks: 8}, path); err != nil {
		t.Fatalf("Cumulative: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty plot file")
	}
}

func TestCumulativeRejectsMismatchedLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pdf")
	if err := Cumulative([]float64{1, 2}, []float64{0.5}, nil, 1, CumulativeConfig{}, path); err == nil {
		t.Fatal("expected an error for mismatched lengths")
	}
}

func TestReliabilitySkipsNaNBins(t *testing.T) {
	series := []ReliabilitySeries{
		{
			Scores:    []float64{0.1, math.NaN(), 0.5, 0.9},
			Responses: []float64{0.2, math.NaN(), 0.4, 0.8},
		},
		{
			Scores:    []float64{0.2, 0.6},
			Responses: []float64{0.3, 0.7},
			Gray:      true,
		},
	}
	path := filepath.Join(t.TempDir(), "reliability.pdf")
	if err := Reliability(series, ReliabilityConfig{Top: 1}, path); err != nil {
		t.Fatalf("Reliability: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("missing or empty plot file: %v", err)
	}
}

func TestExactWritesPDF(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.3}
	responses := []float64{0, 1, 0}
	path := filepath.Join(t.TempDir(), "exact.pdf")
	if err := Exact(scores, responses, "", path); err != nil {
		t.Fatalf("Exact: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("missing or empty plot file: %v", err)
	}
}
