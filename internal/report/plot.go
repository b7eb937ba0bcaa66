package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderPNG plots the histogram as frequency over depth difference and
// saves it as a PNG.
func RenderPNG(buckets []HistogramBucket, title, path string) error {
	if len(buckets) == 0 {
		return fmt.Errorf("no histogram buckets to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "depth difference"
	p.Y.Label.Text = "normalized frequency"

	pts := make(plotter.XYs, 0, len(buckets))
	for _, b := range buckets {
		pts = append(pts, plotter.XY{X: b.LowerBound, Y: b.Frequency})
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build histogram line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save histogram plot: %w", err)
	}
	return nil
}
