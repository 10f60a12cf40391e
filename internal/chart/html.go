package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// FrostDepthHTML renders an interactive line chart of the frost front of
// every series against the column date. Unfrozen columns are gaps.
func FrostDepthHTML(w io.Writer, series []FrostSeries, pipeDepth float64) error {
	if len(series) == 0 {
		return ErrNoData
	}

	longest := series[0]
	for _, s := range series[1:] {
		if len(s.Points) > len(longest.Points) {
			longest = s
		}
	}
	xs := make([]string, len(longest.Points))
	for i, fp := range longest.Points {
		xs[i] = fp.Label.Date.Format(time.DateOnly)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Frost depth", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Frost penetration depth", Subtitle: fmt.Sprintf("pipe depth %.2f m", pipeDepth)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Depth (m)", NameLocation: "middle", NameGap: 40}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(xs)

	for _, s := range series {
		data := make([]opts.LineData, len(xs))
		for i := range data {
			if i < len(s.Points) && s.Points[i].Frozen {
				data[i] = opts.LineData{Value: s.Points[i].Depth}
			} else {
				data[i] = opts.LineData{Value: "-"}
			}
		}
		line.AddSeries(s.Name, data,
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "Water pipe", YAxis: pipeDepth}),
		)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render frost chart: %w", err)
	}
	return nil
}
