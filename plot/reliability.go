package plot

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ReliabilityConfig controls the rendering of a reliability diagram.
type ReliabilityConfig struct {
	// Title of the plot; defaults to "reliability diagram".
	Title string
	// XLabel of the lower axis; defaults to "weighted average of scores".
	XLabel string
	// YLabel of the left axis; defaults to "weighted average of responses".
	YLabel string
	// Top, if positive, caps the vertical axis.
	Top float64
	// Left and Right, if either is non-zero, bound the horizontal axis.
	Left, Right float64
}

// ReliabilitySeries is one binned series of a reliability diagram, plotted as
// a dotted line with star markers. Bins whose entries are NaN are omitted.
type ReliabilitySeries struct {
	Scores    []float64
	Responses []float64
	Gray      bool
}

// Reliability saves a reliability diagram of the given binned series.
func Reliability(series []ReliabilitySeries, cfg ReliabilityConfig, filename string) error {
	if cfg.Title == "" {
		cfg.Title = "reliability diagram"
	}
	if cfg.XLabel == "" {
		cfg.XLabel = "weighted average of scores"
	}
	if cfg.YLabel == "" {
		cfg.YLabel = "weighted average of responses"
	}

	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = cfg.XLabel
	p.Y.Label.Text = cfg.YLabel

	for _, s := range series {
		pts := make(plotter.XYs, 0, len(s.Scores))
		for i := range s.Scores {
			if math.IsNaN(s.Scores[i]) || math.IsNaN(s.Responses[i]) {
				continue
			}
			pts = append(pts, plotter.XY{X: s.Scores[i], Y: s.Responses[i]})
		}
		if len(pts) == 0 {
			continue
		}
		c := color.Color(color.Black)
		if s.Gray {
			c = color.Gray{Y: 0x80}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = c
		line.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
		p.Add(line)

		stars, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		stars.GlyphStyle.Shape = draw.CrossGlyph{}
		stars.GlyphStyle.Color = c
		stars.GlyphStyle.Radius = vg.Points(3)
		p.Add(stars)
	}

	if cfg.Top > 0 {
		p.Y.Min = 0
		p.Y.Max = cfg.Top
	}
	if cfg.Left != 0 || cfg.Right != 0 {
		p.X.Min = cfg.Left
		p.X.Max = cfg.Right
	}

	return p.Save(width, height, filename)
}

// Exact saves a scatter plot of responses against scores, for inspecting the
// raw observations behind a reliability diagram.
func Exact(scores, responses []float64, title, filename string) error {
	if title == "" {
		title = "exact expectations"
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "score"
	p.Y.Label.Text = "response"

	pts := make(plotter.XYs, len(scores))
	for i := range scores {
		pts[i] = plotter.XY{X: scores[i], Y: responses[i]}
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = color.Black
	sc.GlyphStyle.Radius = vg.Points(1)
	p.Add(sc)

	return p.Save(width, height, filename)
}
