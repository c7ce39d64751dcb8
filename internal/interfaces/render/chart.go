// Package render turns analysis results into text: an ASCII line chart for
// per-year counts and tables for crosstabs, label summaries and records.
package render

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

// DefaultChartHeight is the plot height in rows.
const DefaultChartHeight = 10

// Chart is a rendered per-year time series.
type Chart struct {
	Title  string
	Years  []int
	Counts []float64
	// Plot is the ASCII line plot; empty when there are no points.
	Plot string
}

// ChartOption tunes the plot.
type ChartOption func(*chartConfig)

type chartConfig struct {
	height int
	width  int
}

// WithHeight sets the plot height in rows.
func WithHeight(h int) ChartOption {
	return func(c *chartConfig) {
		if h > 0 {
			c.height = h
		}
	}
}

// WithWidth stretches the series to w columns.
func WithWidth(w int) ChartOption {
	return func(c *chartConfig) {
		if w > 0 {
			c.width = w
		}
	}
}

// ChartTitle is the title of the time series chart for reasonLabel.
func ChartTitle(reasonLabel string) string {
	return fmt.Sprintf("Number of rejections for %s by year", reasonLabel)
}

// RenderTimeSeries plots counts, which must be ordered by year.  The x axis
// has one column per calendar year; years missing from counts are drawn on
// the straight line between their neighbours and are not added to Years or
// Counts.
func RenderTimeSeries(counts []rtypes.YearCount, reasonLabel string, opts ...ChartOption) Chart {
	cfg := chartConfig{height: DefaultChartHeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	chart := Chart{Title: ChartTitle(reasonLabel)}
	if len(counts) == 0 {
		return chart
	}

	chart.Years = make([]int, len(counts))
	chart.Counts = make([]float64, len(counts))
	for i, c := range counts {
		chart.Years[i] = c.Year
		chart.Counts[i] = float64(c.Count)
	}

	plotOpts := []asciigraph.Option{
		asciigraph.Height(cfg.height),
		asciigraph.Caption(yearCaption(chart.Years)),
	}
	if cfg.width > 0 {
		plotOpts = append(plotOpts, asciigraph.Width(cfg.width))
	}
	chart.Plot = asciigraph.Plot(yearAxis(chart.Years, chart.Counts), plotOpts...)
	return chart
}

// yearAxis spreads counts over consecutive years, interpolating gaps.
func yearAxis(years []int, counts []float64) []float64 {
	out := make([]float64, 0, len(counts))
	for i, v := range counts {
		if i > 0 {
			gap := years[i] - years[i-1]
			prev := counts[i-1]
			for step := 1; step < gap; step++ {
				out = append(out, prev+(v-prev)*float64(step)/float64(gap))
			}
		}
		out = append(out, v)
	}
	return out
}

func yearCaption(years []int) string {
	if len(years) == 1 {
		return fmt.Sprintf("year %d", years[0])
	}
	return fmt.Sprintf("years %d-%d", years[0], years[len(years)-1])
}

// String renders the title followed by the plot.
func (c Chart) String() string {
	if c.Plot == "" {
		return c.Title + "\n"
	}
	return c.Title + "\n" + c.Plot + "\n"
}
