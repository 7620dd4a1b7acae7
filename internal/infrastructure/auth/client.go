// Package auth is the HTTP client for the account service: signup, password
// login and the authenticated profile lookup.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"homepedia-map/internal/domain/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// minPasswordLength matches the check applied before any network call.
const minPasswordLength = 6

// Client calls the auth service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client for the auth service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// User is an account as returned by the auth service.
type User struct {
	ID   int    `json:"id"`
	Mail string `json:"mail"`
	Name string `json:"name"`
}

// Token is a bearer token issued by the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Mail     string `json:"mail"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Signup validates the request locally, then creates the account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	if !emailPattern.MatchString(req.Mail) {
		return nil, &model.ValidationError{Field: "mail", Message: "adresse e-mail invalide"}
	}
	if len(req.Password) < minPasswordLength {
		return nil, &model.ValidationError{Field: "password", Message: fmt.Sprintf("le mot de passe doit contenir au moins %d caractères", minPasswordLength)}
	}
	if req.Name == "" {
		return nil, &model.ValidationError{Field: "name", Message: "le nom est requis"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encodage de la requête signup: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/signup", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("construction de la requête signup: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var user User
	if err := c.send(httpReq, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The service expects the
// OAuth2 password-grant form encoding.
func (c *Client) Login(ctx context.Context, mail, password string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", mail)
	form.Set("password", password)
	form.Set("scope", "")
	form.Set("client_id", "")
	form.Set("client_secret", "")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/user/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("construction de la requête login: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var token Token
	if err := c.send(httpReq, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Me returns the profile behind a bearer token.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/me", nil)
	if err != nil {
		return nil, fmt.Errorf("construction de la requête me: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+accessToken)

	var user User
	if err := c.send(httpReq, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.NetworkError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &model.HTTPStatusError{Status: resp.StatusCode, Message: payload.Detail}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("décodage de la réponse %s: %w", req.URL.Path, err)
	}
	return nil
}
