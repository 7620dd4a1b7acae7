// Package charts renders the side-panel series as standalone HTML pages
// using go-echarts.
package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"homepedia-map/internal/domain/service"
)

// FoncierLine renders the monthly transaction totals of one zone.
func FoncierLine(points []service.EvolutionPoint, code string) *charts.Line {
	x := make([]string, 0, len(points))
	y := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		x = append(x, p.Period)
		y = append(y, opts.LineData{Value: p.Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Transactions foncières", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Évolution des transactions foncières",
			Subtitle: fmt.Sprintf("maille %s, total mensuel (EUR)", code),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).AddSeries("transactions", y)
	return line
}

// TaxeBar renders the average property tax per exercice.
func TaxeBar(points []service.EvolutionPoint, code string) *charts.Bar {
	x := make([]string, 0, len(points))
	y := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		x = append(x, p.Period)
		y = append(y, opts.BarData{Value: p.Value})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Taxe foncière", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Taxe foncière moyenne",
			Subtitle: fmt.Sprintf("maille %s, par exercice", code),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("taxe moyenne", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

// NaturePie renders the share of each nature of transaction.
func NaturePie(stats []service.NatureStat, code string) *charts.Pie {
	data := make([]opts.PieData, 0, len(stats))
	for _, s := range stats {
		data = append(data, opts.PieData{Name: s.Nature, Value: s.Total})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Natures de mutation", Width: "700px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Répartition par nature de mutation",
			Subtitle: fmt.Sprintf("maille %s", code),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("natures", data)
	return pie
}

// Renderable is any chart that can write itself as HTML.
type Renderable interface {
	Render(w io.Writer) error
}
