package dds

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sartorproj/gocumdiff/cumdiff"
	"github.com/sartorproj/gocumdiff/dataset"
	"github.com/sartorproj/gocumdiff/plot"
	"github.com/sartorproj/gocumdiff/report"
)

// Config collects the parameters of a Taylor-Mickel analysis run.
type Config struct {
	// Seed for the generator that perturbs repeated ages when comparing
	// two subpopulations directly.
	Seed int64
	// DataDir is where the workbook lives or gets downloaded.
	DataDir string
	// OutputDir is the root under which the result directories are
	// created.
	OutputDir string
	// MajorTicks is the number of score-labeled ticks on cumulative plots.
	MajorTicks int
	// NBins lists the bin counts for the reliability diagrams.
	NBins []int
	// EquierrSeed seeds the generator used when binning for equal errors.
	EquierrSeed int64
}

// DefaultConfig returns the parameters used for the published analysis.
func DefaultConfig() Config {
	return Config{
		Seed:        543216789,
		DataDir:     ".",
		OutputDir:   ".",
		MajorTicks:  10,
		NBins:       []int{2, 5, 10, 20, 50},
		EquierrSeed: 987654321,
	}
}

// Run produces the plots and metrics for the given subpopulation(s), with
// the individuals' ages as the scores and the annual expenditures as the
// responses. With subpop2 empty, the subpopulation is compared against the
// full population and the results land under "unweighted/<subpop>";
// otherwise the two subpopulations are compared directly, with dithered
// ages, and the results land under "unweighted<seed>/<subpop>_<subpop2>".
func Run(cfg Config, subpop, subpop2 string, log zerolog.Logger) error {
	if subpop2 == "" {
		if !ValidSubpop(subpop) {
			return fmt.Errorf("unknown subpopulation %q", subpop)
		}
	} else if err := ValidatePair(subpop, subpop2); err != nil {
		return err
	}

	csvPath, err := EnsureData(cfg.DataDir, log)
	if err != nil {
		return err
	}
	records, err := Load(csvPath)
	if err != nil {
		return err
	}
	log.Info().Int("records", records.Len()).Msg("loaded Taylor-Mickel data")

	if subpop2 == "" {
		dir := filepath.Join(cfg.OutputDir, "unweighted", subpop)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		log.Info().Str("dir", dir).Msg("generating")
		return runSingle(cfg, records, subpop, dir)
	}

	dir := filepath.Join(cfg.OutputDir, fmt.Sprintf("unweighted%d", cfg.Seed),
		subpop+"_"+subpop2)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("generating")
	return runPair(cfg, records, subpop, subpop2, dir)
}

// runSingle compares one subpopulation against the full population.
func runSingle(cfg Config, records *Records, subpop, dir string) error {
	s := append([]float64(nil), records.Ages...)
	r := append([]float64(nil), records.Expenditures...)
	perm := dataset.Argsort(s)
	s = dataset.Permute(s, perm)
	r = dataset.Permute(r, perm)

	attr := records.Attribute(subpop)
	var inds []int
	for i, p := range perm {
		if attr[p] == subpop {
			inds = append(inds, i)
		}
	}
	if len(inds) == 0 {
		return fmt.Errorf("subpopulation %q is empty", subpop)
	}

	full := &dataset.Sample{Scores: s, Responses: r}
	res, err := cumdiff.Subpop(full, inds, false)
	if err != nil {
		return err
	}

	sub := full.Select(inds)
	for _, nbin := range cfg.NBins {
		bs, err := cumdiff.EquiscoreBins(sub.Responses, sub.Scores, equalWeights(sub.Len()), nbin)
		if err != nil {
			return err
		}
		bf, err := cumdiff.EquiscoreBins(full.Responses, full.Scores, equalWeights(full.Len()), nbin)
		if err != nil {
			return err
		}
		err = plot.Reliability(
			[]plot.ReliabilitySeries{
				{Scores: bs.Scores, Responses: bs.Responses},
				{Scores: bf.Scores, Responses: bf.Responses, Gray: true},
			},
			plot.ReliabilityConfig{XLabel: "age", YLabel: "mean expenditures"},
			filepath.Join(dir, fmt.Sprintf("equiscores%d.pdf", nbin)))
		if err != nil {
			return err
		}

		rng := rand.New(rand.NewSource(cfg.EquierrSeed))
		es, _, err := cumdiff.EquierrBins(sub.Responses, sub.Scores, equalWeights(sub.Len()), nbin, rng)
		if err != nil {
			return err
		}
		rng = rand.New(rand.NewSource(cfg.EquierrSeed))
		ef, _, err := cumdiff.EquierrBins(full.Responses, full.Scores, equalWeights(full.Len()), nbin, rng)
		if err != nil {
			return err
		}
		err = plot.Reliability(
			[]plot.ReliabilitySeries{
				{Scores: es.Scores, Responses: es.Responses},
				{Scores: ef.Scores, Responses: ef.Responses, Gray: true},
			},
			plot.ReliabilityConfig{XLabel: "age", YLabel: "mean expenditures"},
			filepath.Join(dir, fmt.Sprintf("equierrs%d.pdf", nbin)))
		if err != nil {
			return err
		}
	}

	err = plot.Cumulative(res.Cum, res.A, res.Scores, res.LenScale,
		plot.CumulativeConfig{XLabel: "age", MajorTicks: cfg.MajorTicks},
		filepath.Join(dir, "cumulative.pdf"))
	if err != nil {
		return err
	}

	m := report.NewMetrics()
	m.AddInt("number of observations", len(s))
	m.AddInt("number of distinct subpopulation scores",
		dataset.CountDistinct(sub.Scores))
	m.AddInt("subpopulation size", len(inds))
	m.Add("ate", res.ATE)
	m.Add("ate / lenscale", res.ATE/res.LenScale)
	addCommon(m, &res.Result)
	return m.Write(filepath.Join(dir, "metrics.txt"))
}

// runPair compares two subpopulations directly, dithering the ages so that
// the two sets of scores become disjoint.
func runPair(cfg Config, records *Records, subpop, subpop2, dir string) error {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s, err := dataset.DitherNormal(records.Ages, rng, 1e-8)
	if err != nil {
		return err
	}
	s0 := append([]float64(nil), records.Ages...)
	r := append([]float64(nil), records.Expenditures...)

	perm := dataset.Argsort(s)
	s = dataset.Permute(s, perm)
	s0 = dataset.Permute(s0, perm)
	r = dataset.Permute(r, perm)

	attr := records.Attribute(subpop)
	var inds [2][]int
	for i, p := range perm {
		switch attr[p] {
		case subpop:
			inds[0] = append(inds[0], i)
		case subpop2:
			inds[1] = append(inds[1], i)
		}
	}
	for j, name := range []string{subpop, subpop2} {
		if len(inds[j]) == 0 {
			return fmt.Errorf("subpopulation %q is empty", name)
		}
	}

	rs := [2][]float64{selectAt(r, inds[0]), selectAt(r, inds[1])}
	ss := [2][]float64{selectAt(s, inds[0]), selectAt(s, inds[1])}
	ss0 := [2][]float64{selectAt(s0, inds[0]), selectAt(s0, inds[1])}

	for _, nbin := range cfg.NBins {
		err := pairDiagram(rs, ss, nbin, false, cfg.EquierrSeed,
			filepath.Join(dir, fmt.Sprintf("equiscore%d.pdf", nbin)))
		if err != nil {
			return err
		}
		// Bins with roughly equal numbers of observations.
		err = pairDiagram(rs, ss, nbin, true, cfg.EquierrSeed,
			filepath.Join(dir, fmt.Sprintf("equisamps%d.pdf", nbin)))
		if err != nil {
			return err
		}
	}

	res, err := cumdiff.Disjoint(rs, ss, [2][]float64{}, false)
	if err != nil {
		return err
	}
	err = plot.Cumulative(res.Cum, res.A, res.Scores, res.LenScale,
		plot.CumulativeConfig{XLabel: "age", MajorTicks: cfg.MajorTicks},
		filepath.Join(dir, "cumulative.pdf"))
	if err != nil {
		return err
	}

	// The dithered ages are distinct, so a single draw suffices; the raw
	// ages need the tie-breaking repeated.
	ate, err := cumdiff.DisjointATE(rs, ss, [2][]float64{}, rng, 1)
	if err != nil {
		return err
	}
	rate, err := cumdiff.DisjointATE(rs, ss0, [2][]float64{}, rng, 25)
	if err != nil {
		return err
	}

	m := report.NewMetrics()
	m.AddInt("number of observations", len(s0))
	m.AddInt("number of distinct scores", dataset.CountDistinct(s0))
	m.AddInt("size of subpopulation 0", len(inds[0]))
	m.AddInt("size of subpopulation 1", len(inds[1]))
	m.AddInt("number of staggered bins", res.N)
	m.Add("randomized ate", rate)
	m.Add("randomized ate / lenscale", rate/res.LenScale)
	m.Add("ate", ate)
	m.Add("ate / lenscale", ate/res.LenScale)
	addCommon(m, &res.Result)
	return m.Write(filepath.Join(dir, "metrics.txt"))
}

// pairDiagram draws one reliability diagram comparing the two
// subpopulations, binned either equispaced along the scores or with roughly
// equal numbers of observations per bin.
func pairDiagram(rs, ss [2][]float64, nbin int, equalCounts bool, seed int64, filename string) error {
	var series []plot.ReliabilitySeries
	for j := 0; j < 2; j++ {
		var b *cumdiff.Bins
		var err error
		if equalCounts {
			rng := rand.New(rand.NewSource(seed))
			b, _, err = cumdiff.EquierrBins(rs[j], ss[j], equalWeights(len(ss[j])), nbin, rng)
		} else {
			b, err = cumdiff.EquiscoreBins(rs[j], ss[j], equalWeights(len(ss[j])), nbin)
		}
		if err != nil {
			return err
		}
		series = append(series, plot.ReliabilitySeries{
			Scores: b.Scores, Responses: b.Responses, Gray: j == 1,
		})
	}
	return plot.Reliability(series,
		plot.ReliabilityConfig{XLabel: "age", YLabel: "mean expenditures"},
		filename)
}

func addCommon(m *report.Metrics, res *cumdiff.Result) {
	m.Add("lenscale", res.LenScale)
	m.Add("Kuiper", res.Kuiper)
	m.Add("Kolmogorov-Smirnov", res.KolmogorovSmirnov)
	m.Add("Kuiper / lenscale", res.Kuiper/res.LenScale)
	m.Add("Kolmogorov-Smirnov / lenscale", res.KolmogorovSmirnov/res.LenScale)
	m.Add("Kuiper P-value", res.KuiperPValue())
	m.Add("Kolmogorov-Smirnov P-value", res.KolmogorovSmirnovPValue())
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

func selectAt(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}
