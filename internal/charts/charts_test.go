package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homepedia-map/internal/domain/service"
)

func TestFoncierLineRenders(t *testing.T) {
	line := FoncierLine([]service.EvolutionPoint{
		{Period: "2023-01", Value: 150000},
		{Period: "2023-02", Value: 320000},
	}, "69123")

	var buf bytes.Buffer
	require.NoError(t, line.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "2023-01")
}

func TestTaxeBarRenders(t *testing.T) {
	bar := TaxeBar([]service.EvolutionPoint{
		{Period: "2021", Value: 1000},
		{Period: "2022", Value: 1100},
	}, "69")

	var buf bytes.Buffer
	require.NoError(t, bar.Render(&buf))
	assert.Contains(t, buf.String(), "2022")
}

func TestNaturePieRenders(t *testing.T) {
	pie := NaturePie([]service.NatureStat{
		{Nature: "Vente", Total: 600000, Count: 2, Percentage: 75},
		{Nature: "Echange", Total: 200000, Count: 1, Percentage: 25},
	}, "69")

	var buf bytes.Buffer
	require.NoError(t, pie.Render(&buf))
	assert.Contains(t, buf.String(), "Vente")
}

func TestEmptySeriesStillRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FoncierLine(nil, "69").Render(&buf))
	assert.NotZero(t, buf.Len())
}
