package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/usecase"
)

// GeometryGateway is the full maillage surface the handlers expose.
type GeometryGateway interface {
	usecase.GeometryProvider
	Search(ctx context.Context, q string, niveau model.AdminLevel, limit int) ([]model.Shape, error)
	LevelStats(ctx context.Context) ([]model.LevelStat, error)
}

// MapHandler exposes the stateless map endpoints: frame building, maille
// search, breadcrumb and level statistics.
type MapHandler struct {
	mapView *usecase.MapViewUseCase
	geo     GeometryGateway
}

// NewMapHandler builds the handler.
func NewMapHandler(mapView *usecase.MapViewUseCase, geo GeometryGateway) *MapHandler {
	return &MapHandler{mapView: mapView, geo: geo}
}

// GetFrame builds a map frame for the navigation state encoded in the query
// string. An optional bbox=minLon,minLat,maxLon,maxLat culls the rendered
// zones to the given viewport.
// GET /api/map/frame
func (h *MapHandler) GetFrame(c *gin.Context) {
	nav := model.ParseNavigation(c.Request.URL.Query())
	bound, err := parseBBox(c.Query("bbox"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "paramètre bbox invalide",
			"details": err.Error(),
		})
		return
	}
	frame := h.mapView.BuildFrame(c.Request.Context(), nav, bound, nil)
	c.JSON(http.StatusOK, frame)
}

// SearchMailles runs the free-text maille search.
// GET /api/map/search?q=&niveau=&limit=
func (h *MapHandler) SearchMailles(c *gin.Context) {
	q := c.Query("q")
	if len([]rune(strings.TrimSpace(q))) < 2 {
		c.JSON(http.StatusOK, []model.Shape{})
		return
	}
	var niveau model.AdminLevel
	if v := c.Query("niveau"); v != "" {
		lvl, ok := model.ParseAdminLevel(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "niveau inconnu", "details": v})
			return
		}
		niveau = lvl
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	shapes, err := h.geo.Search(c.Request.Context(), q, niveau, limit)
	if err != nil {
		if model.IsNotFound(err) {
			c.JSON(http.StatusOK, []model.Shape{})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "recherche indisponible",
			"details": err.Error(),
		})
		return
	}
	if shapes == nil {
		shapes = []model.Shape{}
	}
	c.JSON(http.StatusOK, shapes)
}

// GetBreadcrumb returns the root-to-node path of a maille.
// GET /api/map/breadcrumb?niveau=&code=
func (h *MapHandler) GetBreadcrumb(c *gin.Context) {
	niveau, ok := model.ParseAdminLevel(c.Query("niveau"))
	if !ok || c.Query("code") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "niveau et code sont requis"})
		return
	}
	crumbs, err := h.geo.FetchBreadcrumb(c.Request.Context(), niveau, c.Query("code"))
	if err != nil {
		if model.IsNotFound(err) {
			c.JSON(http.StatusOK, []model.BreadcrumbEntry{})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "fil d'ariane indisponible",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, crumbs)
}

// GetLevelStats returns the per-level maille counts.
// GET /api/map/stats
func (h *MapHandler) GetLevelStats(c *gin.Context) {
	stats, err := h.geo.LevelStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "statistiques indisponibles",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseBBox parses "minLon,minLat,maxLon,maxLat". An empty string means no
// culling.
func parseBBox(s string) (*orb.Bound, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, &model.ValidationError{Field: "bbox", Message: "quatre valeurs attendues: minLon,minLat,maxLon,maxLat"}
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, &model.ValidationError{Field: "bbox", Message: "valeur non numérique: " + p}
		}
		vals[i] = v
	}
	b := orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}
	return &b, nil
}
