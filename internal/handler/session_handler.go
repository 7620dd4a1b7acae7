package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/usecase"
)

// SessionHandler exposes the stateful map sessions: one per connected map,
// holding navigation state and the debounced viewport culler.
type SessionHandler struct {
	sessions *usecase.SessionManager
}

// NewSessionHandler builds the handler.
func NewSessionHandler(sessions *usecase.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession opens a session at the navigation state encoded in the query
// string.
// POST /api/map/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	nav := model.ParseNavigation(c.Request.URL.Query())
	s := h.sessions.Create(nav)
	c.JSON(http.StatusCreated, gin.H{
		"id":    s.ID,
		"nav":   s.Nav(),
		"query": s.Nav().Encode(),
	})
}

// GetFrame renders the session's current map frame.
// GET /api/map/sessions/:id/frame
func (h *SessionHandler) GetFrame(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	c.JSON(http.StatusOK, s.Frame())
}

// Navigate replaces the session's navigation state with the query-string
// parameters, keeping unnamed fields at their current values.
// POST /api/map/sessions/:id/navigate
func (h *SessionHandler) Navigate(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	nav := s.Nav()
	nav.ApplyQuery(c.Request.URL.Query())
	s.Navigate(nav)
	c.JSON(http.StatusOK, gin.H{"nav": nav, "query": nav.Encode()})
}

// Select toggles the drill target of a zone.
// POST /api/map/sessions/:id/select?code=
func (h *SessionHandler) Select(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code est requis"})
		return
	}
	nav := s.Select(code)
	c.JSON(http.StatusOK, gin.H{"nav": nav, "query": nav.Encode()})
}

// Drill confirms the pending drill target. At the terminal commune level the
// state is returned unchanged.
// POST /api/map/sessions/:id/drill
func (h *SessionHandler) Drill(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	nav := s.Drill()
	c.JSON(http.StatusOK, gin.H{"nav": nav, "query": nav.Encode()})
}

// viewportEvent is a move or zoom end notification with the new bounds.
type viewportEvent struct {
	Event  string  `json:"event"`
	MinLon float64 `json:"minLon"`
	MinLat float64 `json:"minLat"`
	MaxLon float64 `json:"maxLon"`
	MaxLat float64 `json:"maxLat"`
}

// Viewport records a viewport event; the visible-set recomputation is
// debounced server-side.
// POST /api/map/sessions/:id/viewport
func (h *SessionHandler) Viewport(c *gin.Context) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	var ev viewportEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "format d'événement invalide",
			"details": err.Error(),
		})
		return
	}
	if ev.Event != "moveend" && ev.Event != "zoomend" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event doit être 'moveend' ou 'zoomend'"})
		return
	}
	bound, err := parseBBoxValues(ev.MinLon, ev.MinLat, ev.MaxLon, ev.MaxLat)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bornes invalides", "details": err.Error()})
		return
	}
	s.ViewportChanged(bound)
	c.Status(http.StatusAccepted)
}

// parseBBoxValues validates and assembles a viewport bound.
func parseBBoxValues(minLon, minLat, maxLon, maxLat float64) (orb.Bound, error) {
	if minLon > maxLon || minLat > maxLat {
		return orb.Bound{}, &model.ValidationError{Field: "bbox", Message: "les bornes min doivent être inférieures aux bornes max"}
	}
	return orb.Bound{
		Min: orb.Point{minLon, minLat},
		Max: orb.Point{maxLon, maxLat},
	}, nil
}

// DeleteSession closes and removes a session.
// DELETE /api/map/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session inconnue"})
		return
	}
	c.Status(http.StatusNoContent)
}
