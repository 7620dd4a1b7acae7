package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homepedia-map/internal/domain/model"
)

type fakePanelStats struct {
	mu    sync.Mutex
	calls []string

	chart    *model.ReputationChart
	chartErr error

	foncier    []model.FoncierTransaction
	foncierErr error

	taxe    []model.TaxeFonciereItem
	taxeErr error

	terms    *model.SentimentTerms
	termsErr error
}

func (f *fakePanelStats) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakePanelStats) FetchReputationChart(_ context.Context, _ string, _ model.AdminLevel) (*model.ReputationChart, error) {
	f.record("chart")
	return f.chart, f.chartErr
}

func (f *fakePanelStats) FetchFoncierSeries(_ context.Context, _ string, _ model.AdminLevel) ([]model.FoncierTransaction, error) {
	f.record("foncier")
	return f.foncier, f.foncierErr
}

func (f *fakePanelStats) FetchTaxSeries(_ context.Context, _ string, _ model.AdminLevel) ([]model.TaxeFonciereItem, error) {
	f.record("taxe")
	return f.taxe, f.taxeErr
}

func (f *fakePanelStats) FetchSentimentTerms(_ context.Context, _ string) (*model.SentimentTerms, error) {
	f.record("terms")
	return f.terms, f.termsErr
}

func TestBuildPanelReputationMode(t *testing.T) {
	stats := &fakePanelStats{
		chart: &model.ReputationChart{
			Data: []model.ReputationChartItem{
				{Annee: "2020", Value: 10},
				{Annee: "2021", Value: 14},
			},
			Filtre: []string{"vols"},
			Annee:  []string{"2020", "2021"},
		},
		terms: &model.SentimentTerms{Top: []string{"quartier"}, Positive: []string{}, Negative: []string{}},
	}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "69123", model.LevelCommune, model.DisplayReputation)

	require.NotNil(t, panel.Reputation)
	assert.Len(t, panel.Reputation.Items, 2)
	assert.Equal(t, []string{"vols"}, panel.Reputation.Filtre)
	assert.Equal(t, 4.0, panel.Reputation.Summary.Evolution)
	require.NotNil(t, panel.Sentiment)
	assert.Equal(t, []string{"quartier"}, panel.Sentiment.Top)
	assert.Nil(t, panel.Foncier)
}

func TestBuildPanelFoncierMode(t *testing.T) {
	stats := &fakePanelStats{
		foncier: []model.FoncierTransaction{
			{DateMutation: "2023-01-10", NatureMutation: "Vente", Value: 100000},
			{DateMutation: "2023-02-12", NatureMutation: "Vente", Value: 200000},
		},
		taxe:  []model.TaxeFonciereItem{{Exercice: "2022", Avg: 1100}},
		terms: &model.SentimentTerms{Top: []string{}, Positive: []string{}, Negative: []string{}},
	}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "69", model.LevelDepartement, model.DisplayFoncier)

	require.NotNil(t, panel.Foncier)
	assert.Len(t, panel.Foncier.Monthly, 2)
	require.Len(t, panel.Foncier.Natures, 1)
	assert.Equal(t, "Vente", panel.Foncier.Natures[0].Nature)
	require.Len(t, panel.Foncier.Taxe, 1)
	assert.False(t, panel.Foncier.TaxeOmitted)
	assert.Nil(t, panel.Reputation)
}

func TestBuildPanelTaxFailureOmitsChartOnly(t *testing.T) {
	stats := &fakePanelStats{
		foncier: []model.FoncierTransaction{{DateMutation: "2023-01-10", NatureMutation: "Vente", Value: 100000}},
		taxeErr: &model.DataFetchError{Status: 500, Reason: "indisponible"},
		terms:   &model.SentimentTerms{Top: []string{}, Positive: []string{}, Negative: []string{}},
	}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "69", model.LevelDepartement, model.DisplayFoncier)

	require.NotNil(t, panel.Foncier)
	assert.True(t, panel.Foncier.TaxeOmitted)
	assert.Empty(t, panel.Foncier.Taxe)
	assert.NotEmpty(t, panel.Foncier.Monthly, "the tax failure must not hide the transaction series")
	assert.Empty(t, panel.FoncierError)
}

func TestBuildPanelSectionFailuresAreIsolated(t *testing.T) {
	stats := &fakePanelStats{
		chartErr: &model.DataFetchError{Status: 503, Reason: "hors service"},
		terms:    &model.SentimentTerms{Top: []string{"calme"}, Positive: []string{}, Negative: []string{}},
	}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "69123", model.LevelCommune, model.DisplayReputation)

	assert.Nil(t, panel.Reputation)
	assert.NotEmpty(t, panel.ReputationError)
	require.NotNil(t, panel.Sentiment, "a failed section never hides the others")
	assert.Equal(t, []string{"calme"}, panel.Sentiment.Top)
}

func TestBuildPanelSentimentFailure(t *testing.T) {
	stats := &fakePanelStats{
		chart:    &model.ReputationChart{},
		termsErr: &model.DataFetchError{Status: 500, Reason: "indisponible"},
	}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "69123", model.LevelCommune, model.DisplayReputation)

	assert.Nil(t, panel.Sentiment)
	assert.NotEmpty(t, panel.SentimentError)
	assert.NotNil(t, panel.Reputation)
}

func TestBuildPanelEmptyCodeSkipsAllFetches(t *testing.T) {
	stats := &fakePanelStats{}
	uc := NewPanelUseCase(stats)

	panel := uc.BuildPanel(context.Background(), "", model.LevelRegion, model.DisplayReputation)

	assert.Empty(t, stats.calls)
	assert.Nil(t, panel.Reputation)
	assert.Nil(t, panel.Foncier)
	assert.Nil(t, panel.Sentiment)
}
