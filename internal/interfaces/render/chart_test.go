package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	rtypes "github.com/turtacn/KeyIP-Rejections/pkg/types/rejection"
)

func TestRenderTimeSeries(t *testing.T) {
	counts := []rtypes.YearCount{{Year: 2018, Count: 3}, {Year: 2019, Count: 10}, {Year: 2020, Count: 6}}

	chart := RenderTimeSeries(counts, "hasRej103")

	assert.Equal(t, "Number of rejections for hasRej103 by year", chart.Title)
	assert.Equal(t, []int{2018, 2019, 2020}, chart.Years)
	assert.Equal(t, []float64{3, 10, 6}, chart.Counts)
	assert.NotEmpty(t, chart.Plot)
	assert.Contains(t, chart.Plot, "years 2018-2020")
	assert.True(t, strings.HasPrefix(chart.String(), chart.Title+"\n"))
}

func TestRenderTimeSeries_Empty(t *testing.T) {
	chart := RenderTimeSeries(nil, "cite103Max")

	assert.Equal(t, "Number of rejections for cite103Max by year", chart.Title)
	assert.Empty(t, chart.Years)
	assert.Empty(t, chart.Counts)
	assert.Empty(t, chart.Plot)
	assert.Equal(t, chart.Title+"\n", chart.String())
}

func TestRenderTimeSeries_Options(t *testing.T) {
	counts := []rtypes.YearCount{{Year: 2019, Count: 1}, {Year: 2020, Count: 5}}

	short := RenderTimeSeries(counts, "x", WithHeight(3))
	tall := RenderTimeSeries(counts, "x", WithHeight(12), WithWidth(40))

	assert.Less(t, strings.Count(short.Plot, "\n"), strings.Count(tall.Plot, "\n"))
}

func TestRenderTimeSeries_MissingYearKeepsAxisSpacing(t *testing.T) {
	sparse := RenderTimeSeries([]rtypes.YearCount{{Year: 2018, Count: 2}, {Year: 2020, Count: 6}}, "hasRej101")
	dense := RenderTimeSeries([]rtypes.YearCount{{Year: 2018, Count: 2}, {Year: 2019, Count: 4}, {Year: 2020, Count: 6}}, "hasRej101")

	assert.Equal(t, []int{2018, 2020}, sparse.Years)
	assert.Equal(t, []float64{2, 6}, sparse.Counts)
	assert.Equal(t, dense.Plot, sparse.Plot)
}

func TestYearAxis(t *testing.T) {
	assert.Equal(t, []float64{2, 4, 6}, yearAxis([]int{2018, 2020}, []float64{2, 6}))
	assert.Equal(t, []float64{9, 6, 3, 0, 5}, yearAxis([]int{2018, 2021, 2022}, []float64{9, 0, 5}))
	assert.Equal(t, []float64{1, 2}, yearAxis([]int{2019, 2020}, []float64{1, 2}))
	assert.Equal(t, []float64{7}, yearAxis([]int{2023}, []float64{7}))
	assert.Empty(t, yearAxis(nil, nil))
}

func TestYearCaption(t *testing.T) {
	assert.Equal(t, "year 2021", yearCaption([]int{2021}))
	assert.Equal(t, "years 2018-2023", yearCaption([]int{2018, 2020, 2023}))
}
