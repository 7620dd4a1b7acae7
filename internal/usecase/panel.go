package usecase

import (
	"context"
	"log/slog"
	"sync"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/domain/service"
	"homepedia-map/internal/logger"
)

// PanelStatsProvider is the slice of the data client the side panel needs.
type PanelStatsProvider interface {
	FetchReputationChart(ctx context.Context, code string, niveau model.AdminLevel) (*model.ReputationChart, error)
	FetchFoncierSeries(ctx context.Context, code string, niveau model.AdminLevel) ([]model.FoncierTransaction, error)
	FetchTaxSeries(ctx context.Context, code string, niveau model.AdminLevel) ([]model.TaxeFonciereItem, error)
	FetchSentimentTerms(ctx context.Context, code string) (*model.SentimentTerms, error)
}

// ReputationPanel is the reputation half of the side panel.
type ReputationPanel struct {
	Items   []model.ReputationChartItem `json:"items"`
	Filtre  []string                    `json:"filtre,omitempty"`
	Annees  []string                    `json:"annees,omitempty"`
	Summary service.SeriesSummary       `json:"summary"`
}

// FoncierPanel is the real-estate half of the side panel. TaxeOmitted marks
// a failed tax fetch: the dependent chart is dropped, everything else still
// renders.
type FoncierPanel struct {
	Monthly     []service.EvolutionPoint `json:"monthly"`
	Natures     []service.NatureStat     `json:"natures"`
	Taxe        []service.EvolutionPoint `json:"taxe,omitempty"`
	TaxeOmitted bool                     `json:"taxeOmitted,omitempty"`
}

// SidePanel is the per-zone statistics view next to the map. Each section
// carries its own empty/error state; a failed section never hides the others.
type SidePanel struct {
	Code   string           `json:"code"`
	Niveau model.AdminLevel `json:"niveau"`
	Mode   string           `json:"mode"`

	Reputation      *ReputationPanel      `json:"reputation,omitempty"`
	ReputationError string                `json:"reputationError,omitempty"`
	Foncier         *FoncierPanel         `json:"foncier,omitempty"`
	FoncierError    string                `json:"foncierError,omitempty"`
	Sentiment       *model.SentimentTerms `json:"sentiment,omitempty"`
	SentimentError  string                `json:"sentimentError,omitempty"`
}

// PanelUseCase assembles the side panel for a selected zone.
type PanelUseCase struct {
	stats PanelStatsProvider
	log   *slog.Logger
}

// NewPanelUseCase wires the panel against the data client.
func NewPanelUseCase(stats PanelStatsProvider) *PanelUseCase {
	return &PanelUseCase{stats: stats, log: logger.L()}
}

// BuildPanel fetches and aggregates the zone's statistics for the requested
// display mode. Sentiment terms are always attempted. The mode sections and
// sentiment load concurrently; failures degrade to per-section error
// messages.
func (u *PanelUseCase) BuildPanel(ctx context.Context, code string, niveau model.AdminLevel, mode string) *SidePanel {
	panel := &SidePanel{Code: code, Niveau: niveau, Mode: mode}
	if code == "" {
		return panel
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		switch mode {
		case model.DisplayFoncier:
			u.fillFoncier(ctx, panel)
		default:
			u.fillReputation(ctx, panel)
		}
	}()
	go func() {
		defer wg.Done()
		terms, err := u.stats.FetchSentimentTerms(ctx, code)
		if err != nil {
			panel.SentimentError = err.Error()
			return
		}
		panel.Sentiment = terms
	}()

	wg.Wait()
	return panel
}

func (u *PanelUseCase) fillReputation(ctx context.Context, panel *SidePanel) {
	chart, err := u.stats.FetchReputationChart(ctx, panel.Code, panel.Niveau)
	if err != nil {
		u.log.Warn("graphique réputation indisponible", "code", panel.Code, "err", err)
		panel.ReputationError = err.Error()
		return
	}
	panel.Reputation = &ReputationPanel{
		Items:   chart.Data,
		Filtre:  chart.Filtre,
		Annees:  chart.Annee,
		Summary: service.SummarizeReputation(chart.Data),
	}
}

func (u *PanelUseCase) fillFoncier(ctx context.Context, panel *SidePanel) {
	txs, err := u.stats.FetchFoncierSeries(ctx, panel.Code, panel.Niveau)
	if err != nil {
		u.log.Warn("série foncière indisponible", "code", panel.Code, "err", err)
		panel.FoncierError = err.Error()
		return
	}
	fp := &FoncierPanel{
		Monthly: service.MonthlyTotals(txs),
		Natures: service.NatureDistribution(txs),
	}
	// The tax chart is optional: a failure here only omits it.
	taxe, err := u.stats.FetchTaxSeries(ctx, panel.Code, panel.Niveau)
	if err != nil {
		u.log.Debug("taxe foncière indisponible", "code", panel.Code, "err", err)
		fp.TaxeOmitted = true
	} else {
		fp.Taxe = service.TaxEvolution(taxe)
	}
	panel.Foncier = fp
}
