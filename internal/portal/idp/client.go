package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aaplusconsultants/policytrain/pkg/httpx"
)

const defaultTimeout = 10 * time.Second

// Client talks to a GoTrue-style identity service over its admin REST API.
// Admin calls authenticate with the service key; the JWT secret verifies
// access tokens the provider issues to end users.
type Client struct {
	baseURL    string
	serviceKey string
	jwtSecret  string
	http       *http.Client
}

type ClientConfig struct {
	BaseURL    string
	ServiceKey string
	JWTSecret  string
	Timeout    time.Duration
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("idp: base URL is required")
	}
	if cfg.ServiceKey == "" {
		return nil, fmt.Errorf("idp: service key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		jwtSecret:  cfg.JWTSecret,
		http:       &http.Client{Timeout: timeout},
	}, nil
}

type accountPayload struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	EmailConfirmedAt string   `json:"email_confirmed_at"`
	Metadata         Metadata `json:"user_metadata"`
}

func (p accountPayload) toAccount() Account {
	return Account{
		ID:        p.ID,
		Email:     p.Email,
		Confirmed: p.EmailConfirmedAt != "",
		Metadata:  p.Metadata,
	}
}

// AccountByEmail lists accounts and filters client-side; the admin API has
// no direct lookup-by-email endpoint.
func (c *Client) AccountByEmail(ctx context.Context, email string) (Account, error) {
	var out struct {
		Users []accountPayload `json:"users"`
	}
	q := url.Values{"page": {"1"}, "per_page": {"1000"}}
	if err := c.do(ctx, http.MethodGet, "/admin/users?"+q.Encode(), nil, &out); err != nil {
		return Account{}, err
	}
	for _, u := range out.Users {
		if strings.EqualFold(u.Email, email) {
			return u.toAccount(), nil
		}
	}
	return Account{}, ErrAccountNotFound
}

func (c *Client) CreateAccount(ctx context.Context, email string, meta Metadata) (Account, error) {
	body := map[string]any{
		"email":         email,
		"email_confirm": false,
		"user_metadata": meta,
	}
	var out accountPayload
	if err := c.do(ctx, http.MethodPost, "/admin/users", body, &out); err != nil {
		return Account{}, err
	}
	return out.toAccount(), nil
}

func (c *Client) GenerateLink(ctx context.Context, kind LinkKind, email, redirectTo string, meta Metadata) (string, error) {
	body := map[string]any{
		"type":        string(kind),
		"email":       email,
		"redirect_to": redirectTo,
		"data":        meta,
	}
	var out struct {
		ActionLink string `json:"action_link"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/generate_link", body, &out); err != nil {
		return "", err
	}
	if out.ActionLink == "" {
		return "", fmt.Errorf("idp: provider returned no action link")
	}
	return out.ActionLink, nil
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (Session, error) {
	body := map[string]any{"auth_code": code}
	var out struct {
		AccessToken string         `json:"access_token"`
		User        accountPayload `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", body, &out); err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	if out.AccessToken == "" || out.User.ID == "" {
		return Session{}, ErrExchangeFailed
	}
	return Session{
		AccountID:   out.User.ID,
		Email:       out.User.Email,
		FullName:    out.User.Metadata.FullName,
		AccessToken: out.AccessToken,
	}, nil
}

// SessionFromToken verifies an access token locally using the shared JWT
// secret. Used by the implicit (hash-fragment) flow where no code exchange
// round trip happens.
func (c *Client) SessionFromToken(ctx context.Context, accessToken string) (Session, error) {
	claims, err := httpx.ParseSessionToken(accessToken, c.jwtSecret)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}
	var fullName string
	if v, ok := claims.Metadata["full_name"].(string); ok {
		fullName = v
	}
	return Session{
		AccountID:   claims.Subject,
		Email:       claims.Email,
		FullName:    fullName,
		AccessToken: accessToken,
	}, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("idp: sign out failed with status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("idp: %s %s failed with status %d: %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
