// Package synthetic regenerates the synthetic disjoint-subpopulation
// examples: four constructions of scores, exact sampling probabilities, and
// weights for two subpopulations, with Bernoulli outcomes drawn from the
// exact probabilities.
package synthetic

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gocumdiff/cumdiff"
	"github.com/sartorproj/gocumdiff/plot"
	"github.com/sartorproj/gocumdiff/report"
)

// NumExamples is the number of example constructions.
const NumExamples = 4

// Config collects the parameters of a synthetic run.
type Config struct {
	// Sizes are the numbers of members of the two subpopulations. Every
	// entry of NBins must divide both sizes evenly.
	Sizes [2]int
	// NBins lists the bin counts for the reliability diagrams.
	NBins []int
	// Examples lists the example constructions to generate (0 through 3).
	Examples []int
	// Seed for all random draws.
	Seed int64
	// MajorTicks is the number of score-labeled ticks on cumulative plots.
	MajorTicks int
	// OutputDir is the root under which the result directories are
	// created.
	OutputDir string
}

// DefaultConfig returns the parameters used for the published figures.
func DefaultConfig() Config {
	return Config{
		Sizes:      [2]int{10000, 7000},
		NBins:      []int{10, 50},
		Examples:   []int{0, 1, 2, 3},
		Seed:       987654321,
		MajorTicks: 10,
		OutputDir:  ".",
	}
}

// Run generates the plots and metrics for every configured example and bin
// count, each in its own directory "weighted/<n0>_<n1>_<nbins>_<iex>".
func Run(cfg Config, log zerolog.Logger) error {
	for _, iex := range cfg.Examples {
		for _, nbins := range cfg.NBins {
			for _, m := range cfg.Sizes {
				if m%nbins != 0 {
					return fmt.Errorf("nbins %d must divide the subpopulation size %d evenly",
						nbins, m)
				}
			}
			dir := filepath.Join(cfg.OutputDir, "weighted",
				fmt.Sprintf("%d_%d_%d_%d", cfg.Sizes[0], cfg.Sizes[1], nbins, iex))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			log.Info().Str("dir", dir).Msg("generating")
			if err := runExample(cfg, iex, nbins, dir); err != nil {
				return fmt.Errorf("example %d, %d bins: %w", iex, nbins, err)
			}
		}
	}
	return nil
}

func runExample(cfg Config, iex, nbins int, dir string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, exact, weights, err := Example(iex, cfg.Sizes, rng)
	if err != nil {
		return err
	}

	// Draw Bernoulli outcomes from the exact probabilities.
	rng = rand.New(rand.NewSource(cfg.Seed))
	var r [2][]float64
	for j := 0; j < 2; j++ {
		r[j] = make([]float64, len(exact[j]))
		for i, p := range exact[j] {
			if rng.Float64() <= p {
				r[j][i] = 1
			}
		}
	}

	res, err := cumdiff.Disjoint(r, s, weights, false)
	if err != nil {
		return err
	}
	err = plot.Cumulative(res.Cum, res.A, res.Scores, res.LenScale,
		plot.CumulativeConfig{MajorTicks: cfg.MajorTicks},
		filepath.Join(dir, "cumulative.pdf"))
	if err != nil {
		return err
	}

	m := report.NewMetrics()
	m.AddInt("n", res.N)
	m.AddInt("n[0]", cfg.Sizes[0])
	m.AddInt("n[1]", cfg.Sizes[1])
	m.Add("lenscale", res.LenScale)
	m.Add("Kuiper", res.Kuiper)
	m.Add("Kolmogorov-Smirnov", res.KolmogorovSmirnov)
	m.Add("Kuiper / lenscale", res.Kuiper/res.LenScale)
	m.Add("Kolmogorov-Smirnov / lenscale", res.KolmogorovSmirnov/res.LenScale)
	if err := m.Write(filepath.Join(dir, "metrics.txt")); err != nil {
		return err
	}

	// The same comparison run on the exact expectations in place of the
	// drawn outcomes.
	resExact, err := cumdiff.Disjoint(exact, s, weights, false)
	if err != nil {
		return err
	}
	err = plot.Cumulative(resExact.Cum, resExact.A, resExact.Scores, resExact.LenScale,
		plot.CumulativeConfig{Title: "exact expectations", MajorTicks: cfg.MajorTicks},
		filepath.Join(dir, "cumulative_exact.pdf"))
	if err != nil {
		return err
	}

	var equiscore, equierr []plot.ReliabilitySeries
	for j := 0; j < 2; j++ {
		b, err := cumdiff.EquiscoreBins(r[j], s[j], weights[j], nbins)
		if err != nil {
			return err
		}
		equiscore = append(equiscore, plot.ReliabilitySeries{
			Scores: b.Scores, Responses: b.Responses, Gray: j == 1,
		})
		brng := rand.New(rand.NewSource(cfg.Seed))
		be, _, err := cumdiff.EquierrBins(r[j], s[j], weights[j], nbins, brng)
		if err != nil {
			return err
		}
		equierr = append(equierr, plot.ReliabilitySeries{
			Scores: be.Scores, Responses: be.Responses, Gray: j == 1,
		})
	}
	err = plot.Reliability(equiscore, plot.ReliabilityConfig{},
		filepath.Join(dir, "equiscores.pdf"))
	if err != nil {
		return err
	}
	err = plot.Reliability(equierr, plot.ReliabilityConfig{},
		filepath.Join(dir, "equierrs.pdf"))
	if err != nil {
		return err
	}

	allScores := append(append([]float64(nil), s[0]...), s[1]...)
	allExact := append(append([]float64(nil), exact[0]...), exact[1]...)
	return plot.Exact(allScores, allExact, "exact expectations",
		filepath.Join(dir, "exact.pdf"))
}

// Example constructs the scores, exact sampling probabilities, and weights
// of the numbered example for two subpopulations of the given sizes. The
// scores of each subpopulation come out sorted in increasing order.
func Example(iex int, n [2]int, rng *rand.Rand) (s, exact, weights [2][]float64, err error) {
	if iex < 0 || iex >= NumExamples {
		err = fmt.Errorf("example number %d out of range [0, %d)", iex, NumExamples)
		return
	}

	for j := 0; j < 2; j++ {
		s[j] = sortedUniform(rng, n[j])
	}

	switch iex {
	case 0:
		// Subpopulation 1's scores cluster around 1/2.
		cube(s[1])
		a := [2]float64{.2, 1}
		for j := 0; j < 2; j++ {
			exact[j] = make([]float64, n[j])
			for i, v := range s[j] {
				exact[j][i] = a[j]*(v-.5) - .7*math.Pow(v-.75, float64(j+2)) + .5
			}
		}
		swapWindow(s[1], exact[1], exact[0], .9, .06)
	case 1:
		// Subpopulation 0's scores pile up near zero.
		for i, v := range s[0] {
			s[0][i] = math.Pow(v, 5)
		}
		sort.Float64s(s[0])
		a := math.Sqrt(1. / 2)
		for j := 0; j < 2; j++ {
			exact[j] = make([]float64, n[j])
			for i, v := range s[j] {
				b := -a + 2*a*float64(i)/float64(n[j]) - a/float64(n[j])
				e := (1 + math.Round(math.Sin(5.5*float64(i)/float64(n[j])))) / 2
				exact[j][i] = math.Abs(e*(b*b-a*a) + v)
			}
		}
	case 2:
		// Subpopulation 1's scores spread away from 1/2; its exact
		// probabilities are pure noise.
		for i, v := range s[1] {
			s[1][i] = (1 + math.Cbrt(v-.5)/math.Cbrt(.5)) / 2
		}
		sort.Float64s(s[1])
		exact[0] = make([]float64, n[0])
		for i, v := range s[0] {
			exact[0][i] = v * (1 + math.Cos(16*math.Pi*v)) / 2
		}
		exact[1] = make([]float64, n[1])
		for i := range exact[1] {
			exact[1][i] = rng.Float64()
		}
	case 3:
		// Perfectly calibrated: the exact probabilities equal the scores.
		cube(s[1])
		for j := 0; j < 2; j++ {
			exact[j] = append([]float64(nil), s[j]...)
		}
	}

	for j := 0; j < 2; j++ {
		weights[j] = make([]float64, n[j])
		for i := range weights[j] {
			weights[j][i] = 4 - math.Cos(9*float64(i)/float64(n[j]))
		}
	}
	return
}

// sortedUniform draws n uniform variates on [0, 1) and sorts them.
func sortedUniform(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()
	}
	sort.Float64s(out)
	return out
}

// cube maps sorted uniforms through (1 + (u-1/2)^3 / (1/2)^3) / 2, which
// preserves the order while concentrating the values around 1/2.
func cube(s []float64) {
	for i, v := range s {
		d := v - .5
		s[i] = (1 + d*d*d/.125) / 2
	}
}

// swapWindow exchanges the probabilities of subpopulation 1 within the score
// window [start-width, start+width] with a run of subpopulation 0's
// probabilities beginning at nine tenths of the way through.
func swapWindow(s1, exact1, exact0 []float64, start, width float64) {
	k0 := -1
	for k, v := range s1 {
		if start-v < width {
			k0 = k
			break
		}
	}
	if k0 < 0 {
		return
	}
	for k := k0; k < len(s1); k++ {
		if s1[k]-start > width {
			break
		}
		ind := k - k0 + 9*len(exact0)/10
		if ind >= len(exact0) {
			break
		}
		exact1[k], exact0[ind] = exact0[ind], exact1[k]
	}
}
