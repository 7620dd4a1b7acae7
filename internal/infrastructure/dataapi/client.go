// Package dataapi is the HTTP client for the data service: reputation
// metrics, foncier transactions, property tax and sentiment terms.
package dataapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"homepedia-map/internal/domain/model"
	"homepedia-map/internal/logger"
)

// Client calls the data service. Every failure surfaces as a single
// *model.DataFetchError (status 0 for transport failures); callers convert
// it into an empty "no data" state rather than propagating it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

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

// NewClient builds a client for the data service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(20), 21),
		log:        logger.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// batchEnvelope tolerates both response framings of the batch endpoint: a
// bare record array and the {"data": [...]} envelope the other data routes
// use.
type batchEnvelope struct {
	Data []model.ReputationRecord `json:"data"`
}

// FetchReputationBatch fetches the reputation records for a set of codes in
// one call and returns them keyed by code. An empty code set resolves to an
// empty map without touching the network.
func (c *Client) FetchReputationBatch(ctx context.Context, codes []string, niveau model.AdminLevel) (map[string]model.ReputationRecord, error) {
	if len(codes) == 0 {
		return map[string]model.ReputationRecord{}, nil
	}
	body, err := json.Marshal(map[string]any{
		"codes":  codes,
		"niveau": string(niveau),
	})
	if err != nil {
		return nil, &model.DataFetchError{Reason: fmt.Sprintf("encodage de la requête: %v", err)}
	}

	raw, err := c.do(ctx, http.MethodPost, "/data/reputations/multi/map", body)
	if err != nil {
		return nil, err
	}

	var records []model.ReputationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		var env batchEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &model.DataFetchError{Reason: fmt.Sprintf("décodage de la réponse: %v", err)}
		}
		records = env.Data
	}

	out := make(map[string]model.ReputationRecord, len(records))
	for _, r := range records {
		if r.Code != "" {
			out[r.Code] = r
		}
	}
	return out, nil
}

// FetchReputationChart returns the yearly reputation series used by the side
// panel charts.
func (c *Client) FetchReputationChart(ctx context.Context, code string, niveau model.AdminLevel) (*model.ReputationChart, error) {
	var chart model.ReputationChart
	if err := c.getJSON(ctx, "/data/reputations/chart", url.Values{"code": {code}, "niveau": {string(niveau)}}, &chart); err != nil {
		return nil, err
	}
	return &chart, nil
}

// foncierEnvelope is the {"data": [...]} framing of the foncier routes.
type foncierEnvelope struct {
	Data   []model.FoncierTransaction `json:"data"`
	Filtre []string                   `json:"filtre"`
}

// FetchFoncierSeries returns the dated real-estate transactions for a zone.
func (c *Client) FetchFoncierSeries(ctx context.Context, code string, niveau model.AdminLevel) ([]model.FoncierTransaction, error) {
	var env foncierEnvelope
	if err := c.getJSON(ctx, "/data/fonciers", url.Values{"code": {code}, "niveau": {string(niveau)}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FetchTaxSeries returns the average property tax per exercice.
func (c *Client) FetchTaxSeries(ctx context.Context, code string, niveau model.AdminLevel) ([]model.TaxeFonciereItem, error) {
	var env struct {
		Data []model.TaxeFonciereItem `json:"data"`
	}
	if err := c.getJSON(ctx, "/data/taxe/fonciers", url.Values{"code": {code}, "niveau": {string(niveau)}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FetchEquipements returns the public-equipment rows of a zone.
func (c *Client) FetchEquipements(ctx context.Context, code string) ([]model.Equipment, error) {
	var env struct {
		Data []model.Equipment `json:"data"`
	}
	if err := c.getJSON(ctx, "/data/equipements", url.Values{"code": {code}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// FetchReputations returns the raw per-zone reputation rows.
func (c *Client) FetchReputations(ctx context.Context, code string) ([]model.ReputationChartItem, error) {
	var env struct {
		Data []model.ReputationChartItem `json:"data"`
	}
	if err := c.getJSON(ctx, "/data/reputations", url.Values{"code": {code}}, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// getJSON performs one GET with the query parameters and decodes the body
// into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	fullPath := path
	if len(params) > 0 {
		fullPath += "?" + params.Encode()
	}
	raw, err := c.do(ctx, http.MethodGet, fullPath, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &model.DataFetchError{Reason: fmt.Sprintf("décodage de la réponse %s: %v", path, err)}
	}
	return nil
}

// do issues one request and maps failures onto DataFetchError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &model.DataFetchError{Reason: err.Error()}
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &model.DataFetchError{Reason: fmt.Sprintf("construction de la requête: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.DataFetchError{Reason: fmt.Sprintf("erreur de connexion au serveur: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.DataFetchError{Status: resp.StatusCode, Reason: fmt.Sprintf("lecture de la réponse: %v", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &model.DataFetchError{Status: resp.StatusCode, Reason: serverDetail(raw, resp.Status)}
	}
	return raw, nil
}

// serverDetail prefers the FastAPI {"detail": ...} message over the bare
// status line.
func serverDetail(body []byte, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}
