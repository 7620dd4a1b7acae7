// Package maillage is the HTTP client for the geometry (maillage) service:
// boundary polygons, child listings, breadcrumbs and free-text search.
package maillage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"homepedia-map/internal/cache"
	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/logger"
)

// Client calls the maillage service. Every call is independent and
// idempotent; an optional cache keeps hot GET responses (France-wide region
// collections rarely change) out of the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	store      cache.Store
	cacheTTL   time.Duration
	log        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCache fronts GET responses with the given store.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.store = store
		c.cacheTTL = ttl
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 21),
		store:      cache.Noop{},
		cacheTTL:   5 * time.Minute,
		log:        logger.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchShapes returns the shape identified by (level, code), or the whole
// top-level collection of the level when code is empty.
func (c *Client) FetchShapes(ctx context.Context, level model.AdminLevel, code string) ([]model.Shape, error) {
	path := "/maille/" + url.PathEscape(string(level))
	if code != "" {
		path += "/" + url.PathEscape(code)
	}
	var payload []shapePayload
	if err := c.getJSON(ctx, path, &payload, fmt.Sprintf("maille %s/%s", level, code)); err != nil {
		return nil, err
	}
	return decodeShapes(payload), nil
}

// FetchChildShapes returns the shapes one level below the given parent.
// A commune has no children, so the result is empty without a network call.
func (c *Client) FetchChildShapes(ctx context.Context, parentLevel model.AdminLevel, parentCode string) ([]model.Shape, error) {
	if _, ok := parentLevel.Child(); !ok {
		return nil, nil
	}
	path := "/maille/enfants/" + url.PathEscape(string(parentLevel)) + "/" + url.PathEscape(parentCode)
	var payload []shapePayload
	if err := c.getJSON(ctx, path, &payload, fmt.Sprintf("enfants de %s/%s", parentLevel, parentCode)); err != nil {
		return nil, err
	}
	return decodeShapes(payload), nil
}

// FetchBreadcrumb returns the root-to-node hierarchy path (fil d'Ariane).
func (c *Client) FetchBreadcrumb(ctx context.Context, level model.AdminLevel, code string) ([]model.BreadcrumbEntry, error) {
	path := "/maille/" + url.PathEscape(string(level)) + "/" + url.PathEscape(code) + "/arianne"
	var payload []shapePayload
	if err := c.getJSON(ctx, path, &payload, fmt.Sprintf("arianne %s/%s", level, code)); err != nil {
		return nil, err
	}
	out := make([]model.BreadcrumbEntry, 0, len(payload))
	for _, p := range payload {
		entry := model.BreadcrumbEntry{Code: p.Code, Libelle: p.Libelle}
		if lvl, ok := model.ParseAdminLevel(p.Niveau); ok {
			entry.Niveau = lvl
		}
		out = append(out, entry)
	}
	return out, nil
}

// Search runs a free-text maille search. Queries shorter than two characters
// return nothing without a network call; limit defaults to 10.
func (c *Client) Search(ctx context.Context, q string, niveau model.AdminLevel, limit int) ([]model.Shape, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < 2 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(limit))
	if niveau != "" {
		params.Set("niveau", string(niveau))
	}
	var payload []shapePayload
	if err := c.getJSON(ctx, "/search?"+params.Encode(), &payload, "recherche "+q); err != nil {
		return nil, err
	}
	return decodeShapes(payload), nil
}

// LevelStats returns the per-level shape counts.
func (c *Client) LevelStats(ctx context.Context) ([]model.LevelStat, error) {
	var stats []model.LevelStat
	if err := c.getJSON(ctx, "/stats", &stats, "statistiques maillage"); err != nil {
		return nil, err
	}
	return stats, nil
}

// getJSON performs one GET with cache, rate limit and the error taxonomy:
// transport failures become NetworkError, 404 becomes NotFoundError, other
// non-2xx statuses become HTTPStatusError.
func (c *Client) getJSON(ctx context.Context, path string, out any, resource string) error {
	cacheKey := "maillage:" + path
	if cached, ok := c.store.Get(ctx, cacheKey); ok {
		if err := json.Unmarshal(cached, out); err == nil {
			return nil
		}
		// Corrupt entry: fall through to the network.
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &model.NetworkError{Op: "GET " + path, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("construction de la requête %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.NetworkError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &model.NotFoundError{Resource: resource}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.HTTPStatusError{Status: resp.StatusCode, Message: readDetail(resp.Body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.NetworkError{Op: "GET " + path, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("décodage de la réponse %s: %w", path, err)
	}
	c.store.Set(ctx, cacheKey, body, c.cacheTTL)
	return nil
}

// readDetail extracts the FastAPI-style {"detail": ...} message, if any.
func readDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
