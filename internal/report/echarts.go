package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes the histogram as a standalone interactive bar chart.
func RenderHTML(buckets []HistogramBucket, title, path string) error {
	if len(buckets) == 0 {
		return fmt.Errorf("no histogram buckets to chart")
	}

	x := make([]string, 0, len(buckets))
	y := make([]opts.BarData, 0, len(buckets))
	for _, b := range buckets {
		x = append(x, fmt.Sprintf("%g", b.LowerBound))
		y = append(y, opts.BarData{Value: b.Frequency})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "normalized depth-difference histogram"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("frequency", y)

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create histogram chart: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render histogram chart: %w", err)
	}
	return nil
}
