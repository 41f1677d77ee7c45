package eval

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// renderChart writes the per-bit flip-occurrence and flip-avg-distance
// vectors from result as a two-series go-echarts bar chart to path. It is
// purely a rendering of already-aggregated data: it never mutates result.
func renderChart(path string, result Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("eval: creating chart output: %w", err)
	}
	defer f.Close()

	n := result.DataWidth + result.ECCWidth
	xnames := make([]string, n)
	for i := range xnames {
		xnames[i] = fmt.Sprint(i)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Fault injection results",
			Subtitle: fmt.Sprintf("datawidth %d, eccwidth %d", result.DataWidth, result.ECCWidth),
			Left:     "20%",
		}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "top"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "bit position", SplitLine: &opts.SplitLine{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count / distance", SplitLine: &opts.SplitLine{Show: true}}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	bar.SetXAxis(xnames)
	bar.AddSeries("post fault flip occurrences", barData(result.Counters.FlipOccurrences))
	bar.AddSeries("flip occurrence avg flip distance", barDataSigned(result.Counters.NormalizedFlipDistances(result.FailCount)))

	return bar.Render(f)
}

func barData(values []uint64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func barDataSigned(values []int64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}
