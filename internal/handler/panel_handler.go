package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homepedia-map/internal/charts"
	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/domain/service"
	"homepedia-map/internal/usecase"
)

// PanelHandler exposes the per-zone statistics panel and its chart pages.
type PanelHandler struct {
	panel *usecase.PanelUseCase
	stats usecase.PanelStatsProvider
}

// NewPanelHandler builds the handler.
func NewPanelHandler(panel *usecase.PanelUseCase, stats usecase.PanelStatsProvider) *PanelHandler {
	return &PanelHandler{panel: panel, stats: stats}
}

// GetPanel builds the side panel of a zone.
// GET /api/zones/panel?code=&niveau=&typeDataDisplay=
func (h *PanelHandler) GetPanel(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code est requis"})
		return
	}
	niveau, ok := model.ParseAdminLevel(c.DefaultQuery("niveau", string(model.LevelRegion)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "niveau inconnu", "details": c.Query("niveau")})
		return
	}
	mode := c.DefaultQuery("typeDataDisplay", model.DisplayReputation)

	panel := h.panel.BuildPanel(c.Request.Context(), code, niveau, mode)
	c.JSON(http.StatusOK, panel)
}

// GetFoncierChart renders the monthly transaction chart of a zone as HTML.
// GET /api/zones/charts/foncier?code=&niveau=
func (h *PanelHandler) GetFoncierChart(c *gin.Context) {
	code, niveau, ok := h.chartParams(c)
	if !ok {
		return
	}
	txs, err := h.stats.FetchFoncierSeries(c.Request.Context(), code, niveau)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "série foncière indisponible",
			"details": err.Error(),
		})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := charts.FoncierLine(service.MonthlyTotals(txs), code).Render(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rendu du graphique échoué", "details": err.Error()})
	}
}

// GetTaxeChart renders the property-tax chart of a zone as HTML.
// GET /api/zones/charts/taxe?code=&niveau=
func (h *PanelHandler) GetTaxeChart(c *gin.Context) {
	code, niveau, ok := h.chartParams(c)
	if !ok {
		return
	}
	items, err := h.stats.FetchTaxSeries(c.Request.Context(), code, niveau)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "taxe foncière indisponible",
			"details": err.Error(),
		})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := charts.TaxeBar(service.TaxEvolution(items), code).Render(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rendu du graphique échoué", "details": err.Error()})
	}
}

// GetNatureChart renders the nature-of-transaction distribution as HTML.
// GET /api/zones/charts/natures?code=&niveau=
func (h *PanelHandler) GetNatureChart(c *gin.Context) {
	code, niveau, ok := h.chartParams(c)
	if !ok {
		return
	}
	txs, err := h.stats.FetchFoncierSeries(c.Request.Context(), code, niveau)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "série foncière indisponible",
			"details": err.Error(),
		})
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := charts.NaturePie(service.NatureDistribution(txs), code).Render(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rendu du graphique échoué", "details": err.Error()})
	}
}

func (h *PanelHandler) chartParams(c *gin.Context) (string, model.AdminLevel, bool) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code est requis"})
		return "", "", false
	}
	niveau, ok := model.ParseAdminLevel(c.DefaultQuery("niveau", string(model.LevelCommune)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "niveau inconnu", "details": c.Query("niveau")})
		return "", "", false
	}
	return code, niveau, true
}
