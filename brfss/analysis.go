package brfss

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/gocumdiff/cumdiff"
	"github.com/sartorproj/gocumdiff/dataset"
	"github.com/sartorproj/gocumdiff/dists"
	"github.com/sartorproj/gocumdiff/plot"
	"github.com/sartorproj/gocumdiff/report"
)

// Config collects the parameters of a BRFSS analysis run.
type Config struct {
	// Seed for the random number generator that perturbs repeated scores.
	Seed int64
	// KitchenSink selects the thirteen-subpopulation variant.
	KitchenSink bool
	// DataDir is where the fixed-width data file lives or gets downloaded.
	DataDir string
	// OutputDir is the root under which the result directories are created.
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
		MajorTicks:  8,
		NBins:       []int{2, 5, 10, 20, 40},
		EquierrSeed: 987654321,
	}
}

type analysis struct {
	cfg Config
	log zerolog.Logger

	ext     *dataset.Extract
	weights []float64
}

// Run downloads the BRFSS data if necessary and produces all plots and
// metrics files under the configured output directory: paired comparisons
// under "weighted", and subpopulation comparisons under "weighted<seed>".
func Run(cfg Config, log zerolog.Logger) error {
	a := &analysis{cfg: cfg, log: log}

	path, err := EnsureData(cfg.DataDir, log)
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("reading BRFSS records")
	a.ext, err = dataset.LoadFixedWidth(path, Codebook())
	if err != nil {
		return err
	}

	// Drop individuals without a valid body mass index.
	bmi, err := a.ext.Column(VarBMI)
	if err != nil {
		return err
	}
	keep := make([]bool, len(bmi))
	for i, v := range bmi {
		keep[i] = v > 0
	}
	a.ext.Filter(keep)
	log.Info().Int("records", a.ext.Len()).Msg("filtered to valid covariates")

	a.weights, err = a.ext.Column(VarWeight)
	if err != nil {
		return err
	}
	for _, w := range a.weights {
		if w <= 0 {
			return fmt.Errorf("survey weights must be strictly positive")
		}
	}

	if err := a.runPaired(); err != nil {
		return err
	}
	if err := a.runSubpops(); err != nil {
		return err
	}
	return a.runSexHeight()
}

// EnsureData downloads and decompresses the 2022 ASCII data into dir if the
// decompressed file is not already present, and returns its path.
func EnsureData(dir string, log zerolog.Logger) (string, error) {
	path := filepath.Join(dir, DataFile)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	log.Info().Str("url", DataURL).Msg("downloading BRFSS data")
	if err := dataset.DownloadZipMember(DataURL, ZipMember, path); err != nil {
		return "", fmt.Errorf("downloading BRFSS data: %w", err)
	}
	return path, nil
}

// runPaired compares pairs of response variates observed for the same
// individuals, with the body mass index as the score.
func (a *analysis) runPaired() error {
	s, err := a.scaledColumn(VarBMI, .01)
	if err != nil {
		return err
	}
	vars := PairedVars()
	for _, first := range vars {
		for _, second := range vars {
			if second == first {
				continue
			}
			subdir := filepath.Join(a.cfg.OutputDir, "weighted",
				sanitize(first+"_and_"+second), sanitize(VarBMI))
			if err := os.MkdirAll(subdir, 0o755); err != nil {
				return err
			}
			a.log.Info().Str("dir", subdir).Msg("generating")
			if err := a.pairedComparison(first, second, s, subdir); err != nil {
				return fmt.Errorf("%s: %w", subdir, err)
			}
		}
	}
	return nil
}

func (a *analysis) pairedComparison(first, second string, scores []float64, subdir string) error {
	r0, err := a.indicatorColumn(first, 1)
	if err != nil {
		return err
	}
	r1, err := a.indicatorColumn(second, 1)
	if err != nil {
		return err
	}

	perm := dataset.Argsort(scores)
	s := dataset.Permute(scores, perm)
	r0 = dataset.Permute(r0, perm)
	r1 = dataset.Permute(r1, perm)
	w := dataset.Permute(a.weights, perm)

	res, err := cumdiff.Paired(r0, r1, s, w)
	if err != nil {
		return err
	}
	err = plot.Cumulative(res.Cum, res.A, res.Scores, res.LenScale,
		plot.CumulativeConfig{MajorTicks: a.cfg.MajorTicks},
		filepath.Join(subdir, "cumulative.pdf"))
	if err != nil {
		return err
	}

	for _, nbin := range a.cfg.NBins {
		series, err := equiscorePair(r0, r1, s, w, nbin)
		if err != nil {
			return err
		}
		err = plot.Reliability(series, plot.ReliabilityConfig{Top: 1},
			filepath.Join(subdir, fmt.Sprintf("equiscores%d.pdf", nbin)))
		if err != nil {
			return err
		}
		series, err = a.equierrPair(r0, r1, s, w, nbin)
		if err != nil {
			return err
		}
		err = plot.Reliability(series, plot.ReliabilityConfig{},
			filepath.Join(subdir, fmt.Sprintf("equierrs%d.pdf", nbin)))
		if err != nil {
			return err
		}
	}

	m := report.NewMetrics()
	m.AddInt("number of observations", len(s))
	m.AddInt("number of distinct scores", dataset.CountDistinct(s))
	m.Add("ate", res.ATE)
	m.Add("ate / lenscale", res.ATE/res.LenScale)
	m.Add("lenscale", res.LenScale)
	m.Add("kuiper", res.Kuiper)
	m.Add("kolmogorov_smirnov", res.KolmogorovSmirnov)
	m.Add("kuiper / lenscale", res.Kuiper/res.LenScale)
	m.Add("kolmogorov_smirnov / lenscale", res.KolmogorovSmirnov/res.LenScale)
	m.Add("kuiper p-value", res.KuiperPValue())
	m.Add("kolmogorov_smirnov p-value", res.KolmogorovSmirnovPValue())
	return m.Write(filepath.Join(subdir, "metrics.txt"))
}

// runSubpops compares each coded subpopulation pair against the full
// population and against each other, for every other response variate.
func (a *analysis) runSubpops() error {
	dir := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("weighted%d", a.cfg.Seed))
	scores, err := a.scaledColumn(VarBMI, .01)
	if err != nil {
		return err
	}
	subpops := Subpops(a.cfg.KitchenSink)
	for _, subvar := range subpops {
		indices, err := a.codedIndices(subvar, 1, 2)
		if err != nil {
			return err
		}
		for _, revar := range subpops {
			if revar == subvar {
				continue
			}
			responses, err := a.indicatorColumn(revar, 1)
			if err != nil {
				return err
			}
			subdir := filepath.Join(dir, sanitize(subvar),
				sanitize(revar+"_vs_"+VarBMI))
			if err := os.MkdirAll(subdir, 0o755); err != nil {
				return err
			}
			a.log.Info().Str("dir", subdir).Msg("generating")
			cmp := popComparison{
				scores:    scores,
				responses: responses,
				indices:   indices,
				amplitude: 1e-8,
				bernoulli: true,
				subdir:    subdir,
			}
			if err := a.comparePops(cmp); err != nil {
				return fmt.Errorf("%s: %w", subdir, err)
			}
		}
	}
	return nil
}

// runSexHeight compares the body mass index of men and women with the height
// as the score.
func (a *analysis) runSexHeight() error {
	dir := filepath.Join(a.cfg.OutputDir, fmt.Sprintf("weighted%d", a.cfg.Seed))
	indices, err := a.codedIndices(VarSex, 1, 2)
	if err != nil {
		return err
	}
	// The three-digit field stores centimeters, hence the directory name.
	scores, err := a.ext.Column(VarHeightM)
	if err != nil {
		return err
	}
	responses, err := a.scaledColumn(VarBMI, .01)
	if err != nil {
		return err
	}
	subdir := filepath.Join(dir, sanitize(VarSex),
		sanitize(VarBMI+"_vs_"+"Computed Height in Centimeters"))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return err
	}
	a.log.Info().Str("dir", subdir).Msg("generating")
	cmp := popComparison{
		scores:    scores,
		responses: responses,
		indices:   indices,
		amplitude: 1e-6,
		bernoulli: false,
		subdir:    subdir,
	}
	if err := a.comparePops(cmp); err != nil {
		return fmt.Errorf("%s: %w", subdir, err)
	}
	return nil
}

// popComparison describes one pair of subpopulations to compare against the
// full population and against each other.
type popComparison struct {
	scores    []float64
	responses []float64
	indices   [2][]int
	amplitude float64
	bernoulli bool
	subdir    string
}

// comparePops produces the cumulative plots, reliability diagrams, and
// metrics for one pair of subpopulations: files suffixed "0" and "1" compare
// each subpopulation to the full population; files suffixed "01" compare the
// two subpopulations directly, after perturbing the scores so that the two
// sets become disjoint.
func (a *analysis) comparePops(c popComparison) error {
	rng := rand.New(rand.NewSource(a.cfg.Seed))

	dithered, err := dataset.DitherUniform(c.scores, rng, c.amplitude)
	if err != nil {
		return err
	}

	// Two sorted views of the data: by the original scores for the
	// full-population comparisons, and by the perturbed scores for the
	// direct comparison.
	perm0 := dataset.Argsort(c.scores)
	s00 := dataset.Permute(c.scores, perm0)
	r00 := dataset.Permute(c.responses, perm0)
	w00 := dataset.Permute(a.weights, perm0)
	inds00 := remapIndices(c.indices, dataset.InversePerm(perm0))

	perm := dataset.Argsort(dithered)
	s := dataset.Permute(dithered, perm)
	s0 := dataset.Permute(c.scores, perm)
	r := dataset.Permute(c.responses, perm)
	w := dataset.Permute(a.weights, perm)
	inds := remapIndices(c.indices, dataset.InversePerm(perm))

	full := &dataset.Sample{Scores: s00, Responses: r00, Weights: w00}

	var (
		lenscales [3]float64
		kuipers   [3]float64
		kss       [3]float64
		ates      [4]float64
	)
	for k := 0; k < 2; k++ {
		res, err := cumdiff.Subpop(full, inds00[k], c.bernoulli)
		if err != nil {
			return err
		}
		lenscales[k] = res.LenScale
		kuipers[k] = res.Kuiper
		kss[k] = res.KolmogorovSmirnov
		ates[k] = res.ATE
		err = plot.Cumulative(res.Cum, res.A, res.Scores, res.LenScale,
			plot.CumulativeConfig{MajorTicks: a.cfg.MajorTicks},
			filepath.Join(c.subdir, fmt.Sprintf("cumulative%d.pdf", k)))
		if err != nil {
			return err
		}
		sub := full.Select(inds00[k])
		for _, nbin := range a.cfg.NBins {
			err = a.subpopDiagrams(sub, full, nbin, k, c.subdir)
			if err != nil {
				return err
			}
		}
	}

	rs := [2][]float64{selectAt(r, inds[0]), selectAt(r, inds[1])}
	ss := [2][]float64{selectAt(s, inds[0]), selectAt(s, inds[1])}
	ss0 := [2][]float64{selectAt(s0, inds[0]), selectAt(s0, inds[1])}
	ws := [2][]float64{selectAt(w, inds[0]), selectAt(w, inds[1])}

	res01, err := cumdiff.Disjoint(rs, ss, ws, false)
	if err != nil {
		return err
	}
	lenscales[2] = res01.LenScale
	kuipers[2] = res01.Kuiper
	kss[2] = res01.KolmogorovSmirnov
	err = plot.Cumulative(res01.Cum, res01.A, res01.Scores, res01.LenScale,
		plot.CumulativeConfig{MajorTicks: a.cfg.MajorTicks},
		filepath.Join(c.subdir, "cumulative01.pdf"))
	if err != nil {
		return err
	}
	for _, nbin := range a.cfg.NBins {
		err = a.disjointDiagrams(rs, ss, ws, nbin, c.subdir)
		if err != nil {
			return err
		}
	}

	// The perturbed scores are distinct, so a single draw suffices for
	// them; the original scores need the tie-breaking repeated.
	ates[2], err = cumdiff.DisjointATE(rs, ss, ws, rng, 1)
	if err != nil {
		return err
	}
	ates[3], err = cumdiff.DisjointATE(rs, ss0, ws, rng, 25)
	if err != nil {
		return err
	}

	m := report.NewMetrics()
	m.AddInt("number of observations", len(r))
	m.AddInt("number of distinct scores", dataset.CountDistinct(s0))
	m.AddString("subpopulation sizes",
		fmt.Sprintf("(%d, %d)", len(inds[0]), len(inds[1])))
	m.AddInt("number of staggered bins", res01.N)
	m.AddString("ates", tuple(ates[:]...))
	m.AddString("ates / lenscales", tuple(
		ates[0]/lenscales[0], ates[1]/lenscales[1],
		ates[2]/lenscales[2], ates[3]/lenscales[2]))
	m.AddString("lenscales", tuple(lenscales[:]...))
	m.AddString("kuipers", tuple(kuipers[:]...))
	m.AddString("kolmogorov_smirnovs", tuple(kss[:]...))
	m.AddString("kuipers / lenscales", tuple(
		kuipers[0]/lenscales[0], kuipers[1]/lenscales[1], kuipers[2]/lenscales[2]))
	m.AddString("kolmogorov_smirnovs / lenscales", tuple(
		kss[0]/lenscales[0], kss[1]/lenscales[1], kss[2]/lenscales[2]))
	m.AddString("kuiper p-values", tuple(
		pvalKuiper(kuipers[0]/lenscales[0]),
		pvalKuiper(kuipers[1]/lenscales[1]),
		pvalKuiper(kuipers[2]/lenscales[2])))
	m.AddString("kolmogorov_smirnov p-values", tuple(
		pvalKS(kss[0]/lenscales[0]),
		pvalKS(kss[1]/lenscales[1]),
		pvalKS(kss[2]/lenscales[2])))
	return m.Write(filepath.Join(c.subdir, "metrics.txt"))
}

// subpopDiagrams draws the equiscore and equierr reliability diagrams
// comparing one subpopulation (black) to the full population (gray).
func (a *analysis) subpopDiagrams(sub, full *dataset.Sample, nbin, k int, subdir string) error {
	bs, err := cumdiff.EquiscoreBins(sub.Responses, sub.Scores, sub.Weights, nbin)
	if err != nil {
		return err
	}
	bf, err := cumdiff.EquiscoreBins(full.Responses, full.Scores, full.Weights, nbin)
	if err != nil {
		return err
	}
	err = plot.Reliability(
		[]plot.ReliabilitySeries{
			{Scores: bs.Scores, Responses: bs.Responses},
			{Scores: bf.Scores, Responses: bf.Responses, Gray: true},
		},
		plot.ReliabilityConfig{
			Top:   1,
			Left:  floats.Min(full.Scores),
			Right: floats.Max(full.Scores),
		},
		filepath.Join(subdir, fmt.Sprintf("equiscores%d_%d.pdf", k, nbin)))
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(a.cfg.EquierrSeed))
	es, _, err := cumdiff.EquierrBins(sub.Responses, sub.Scores, sub.Weights, nbin, rng)
	if err != nil {
		return err
	}
	rng = rand.New(rand.NewSource(a.cfg.EquierrSeed))
	ef, _, err := cumdiff.EquierrBins(full.Responses, full.Scores, full.Weights, nbin, rng)
	if err != nil {
		return err
	}
	return plot.Reliability(
		[]plot.ReliabilitySeries{
			{Scores: es.Scores, Responses: es.Responses},
			{Scores: ef.Scores, Responses: ef.Responses, Gray: true},
		},
		plot.ReliabilityConfig{},
		filepath.Join(subdir, fmt.Sprintf("equierrs%d_%d.pdf", k, nbin)))
}

// disjointDiagrams draws the reliability diagrams comparing the two
// subpopulations directly, one series each.
func (a *analysis) disjointDiagrams(rs, ss, ws [2][]float64, nbin int, subdir string) error {
	var series []plot.ReliabilitySeries
	for j := 0; j < 2; j++ {
		b, err := cumdiff.EquiscoreBins(rs[j], ss[j], ws[j], nbin)
		if err != nil {
			return err
		}
		series = append(series, plot.ReliabilitySeries{
			Scores: b.Scores, Responses: b.Responses, Gray: j == 1,
		})
	}
	err := plot.Reliability(series, plot.ReliabilityConfig{},
		filepath.Join(subdir, fmt.Sprintf("equiscores01_%d.pdf", nbin)))
	if err != nil {
		return err
	}
	series = series[:0]
	for j := 0; j < 2; j++ {
		rng := rand.New(rand.NewSource(a.cfg.EquierrSeed))
		b, _, err := cumdiff.EquierrBins(rs[j], ss[j], ws[j], nbin, rng)
		if err != nil {
			return err
		}
		series = append(series, plot.ReliabilitySeries{
			Scores: b.Scores, Responses: b.Responses, Gray: j == 1,
		})
	}
	return plot.Reliability(series, plot.ReliabilityConfig{},
		filepath.Join(subdir, fmt.Sprintf("equierrs01_%d.pdf", nbin)))
}

func equiscorePair(r0, r1, s, w []float64, nbin int) ([]plot.ReliabilitySeries, error) {
	b0, err := cumdiff.EquiscoreBins(r0, s, w, nbin)
	if err != nil {
		return nil, err
	}
	b1, err := cumdiff.EquiscoreBins(r1, s, w, nbin)
	if err != nil {
		return nil, err
	}
	return []plot.ReliabilitySeries{
		{Scores: b0.Scores, Responses: b0.Responses},
		{Scores: b1.Scores, Responses: b1.Responses, Gray: true},
	}, nil
}

func (a *analysis) equierrPair(r0, r1, s, w []float64, nbin int) ([]plot.ReliabilitySeries, error) {
	rng := rand.New(rand.NewSource(a.cfg.EquierrSeed))
	b0, _, err := cumdiff.EquierrBins(r0, s, w, nbin, rng)
	if err != nil {
		return nil, err
	}
	rng = rand.New(rand.NewSource(a.cfg.EquierrSeed))
	b1, _, err := cumdiff.EquierrBins(r1, s, w, nbin, rng)
	if err != nil {
		return nil, err
	}
	return []plot.ReliabilitySeries{
		{Scores: b0.Scores, Responses: b0.Responses},
		{Scores: b1.Scores, Responses: b1.Responses, Gray: true},
	}, nil
}

func (a *analysis) scaledColumn(name string, factor float64) ([]float64, error) {
	col, err := a.ext.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = v * factor
	}
	return out, nil
}

// indicatorColumn returns 1 where the variate equals code and 0 elsewhere.
func (a *analysis) indicatorColumn(name string, code float64) ([]float64, error) {
	col, err := a.ext.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		if v == code {
			out[i] = 1
		}
	}
	return out, nil
}

// codedIndices returns the row indices where the variate takes each of the
// two coded values.
func (a *analysis) codedIndices(name string, code0, code1 float64) ([2][]int, error) {
	col, err := a.ext.Column(name)
	if err != nil {
		return [2][]int{}, err
	}
	var out [2][]int
	for i, v := range col {
		switch v {
		case code0:
			out[0] = append(out[0], i)
		case code1:
			out[1] = append(out[1], i)
		}
	}
	if len(out[0]) == 0 || len(out[1]) == 0 {
		return [2][]int{}, fmt.Errorf("variate %q has an empty subpopulation", name)
	}
	return out, nil
}

// remapIndices maps row indices through the inverse of a sorting permutation
// and sorts the results, yielding positions within the sorted arrays.
func remapIndices(indices [2][]int, inv []int) [2][]int {
	var out [2][]int
	for j := 0; j < 2; j++ {
		out[j] = make([]int, len(indices[j]))
		for i, idx := range indices[j] {
			out[j][i] = inv[idx]
		}
		sort.Ints(out[j])
	}
	return out
}

func selectAt(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = values[idx]
	}
	return out
}

// sanitize turns a variate name into a directory name.
func sanitize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "?", "")
}

func pvalKuiper(scaled float64) float64 {
	return 1 - dists.Kuiper(scaled)
}

func pvalKS(scaled float64) float64 {
	return 1 - dists.KolmogorovSmirnov(scaled)
}

// tuple formats values as a parenthesized tuple to four significant digits.
func tuple(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%.4g", v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
