package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/infrastructure/auth"
)

// AuthHandler proxies account management to the auth service.
type AuthHandler struct {
	auth *auth.Client
}

// NewAuthHandler builds the handler.
func NewAuthHandler(client *auth.Client) *AuthHandler {
	return &AuthHandler{auth: client}
}

// Signup creates an account.
// POST /api/user/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "format de requête invalide",
			"details": err.Error(),
		})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, err, "inscription échouée")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// loginRequest carries the login credentials; the form encoding the auth
// service expects is applied by the client.
type loginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
// POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "format de requête invalide",
			"details": err.Error(),
		})
		return
	}
	if req.Mail == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mail et mot de passe sont requis"})
		return
	}
	token, err := h.auth.Login(c.Request.Context(), req.Mail, req.Password)
	if err != nil {
		h.renderError(c, err, "connexion échouée")
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me returns the profile behind the bearer token of the request.
// GET /api/user/me
func (h *AuthHandler) Me(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "jeton bearer requis"})
		return
	}
	user, err := h.auth.Me(c.Request.Context(), token)
	if err != nil {
		h.renderError(c, err, "profil indisponible")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) renderError(c *gin.Context, err error, msg string) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "details": vErr.Error()})
		return
	}
	var sErr *model.HTTPStatusError
	if errors.As(err, &sErr) {
		status := sErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": msg, "details": sErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg, "details": err.Error()})
}
