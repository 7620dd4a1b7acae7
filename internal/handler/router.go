package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the whole API surface on the engine.
func RegisterRoutes(r *gin.Engine, maps *MapHandler, sessions *SessionHandler, panel *PanelHandler, accounts *AuthHandler) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "homepedia-map"})
	})

	mapGroup := api.Group("/map")
	{
		mapGroup.GET("/frame", maps.GetFrame)
		mapGroup.GET("/search", maps.SearchMailles)
		mapGroup.GET("/breadcrumb", maps.GetBreadcrumb)
		mapGroup.GET("/stats", maps.GetLevelStats)

		mapGroup.POST("/sessions", sessions.CreateSession)
		mapGroup.GET("/sessions/:id/frame", sessions.GetFrame)
		mapGroup.POST("/sessions/:id/navigate", sessions.Navigate)
		mapGroup.POST("/sessions/:id/select", sessions.Select)
		mapGroup.POST("/sessions/:id/drill", sessions.Drill)
		mapGroup.POST("/sessions/:id/viewport", sessions.Viewport)
		mapGroup.DELETE("/sessions/:id", sessions.DeleteSession)
	}

	zones := api.Group("/zones")
	{
		zones.GET("/panel", panel.GetPanel)
		zones.GET("/charts/foncier", panel.GetFoncierChart)
		zones.GET("/charts/taxe", panel.GetTaxeChart)
		zones.GET("/charts/natures", panel.GetNatureChart)
	}

	user := api.Group("/user")
	{
		user.POST("/signup", accounts.Signup)
		user.POST("/login", accounts.Login)
		user.GET("/me", accounts.Me)
	}
}
