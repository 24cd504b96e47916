package fmeserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
	"github.com/msto63/fmwkit/pkg/core/config"
)

const apiPrefix = "/fmerest/v3"

// Client is the FME Server REST v3 client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost",
		Timeout: 30 * time.Second,
	}
}

// FromServerConfig builds a client configuration from a configured server
func FromServerConfig(s config.ServerConfig) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = s.Host
	cfg.Token = s.Token
	if s.Timeout.Duration > 0 {
		cfg.Timeout = s.Timeout.Duration
	}
	return cfg
}

// NewClient creates a new FME Server client
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Schedule is one scheduled job as reported by the server
type Schedule struct {
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Enabled    bool      `json:"enabled"`
	Repository string    `json:"repository"`
	Workspace  string    `json:"workspace"`
	Begin      time.Time `json:"begin"`
	Recurrence string    `json:"recurrence"`
	Cron       string    `json:"cron,omitempty"`
}

// Repository is a workspace repository
type Repository struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	FileCount   int    `json:"fileCount"`
}

// Item is one entry of a repository
type Item struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	LastSaveDate string `json:"lastSaveDate"`
}

type listResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

// Schedules lists every schedule on the server
func (c *Client) Schedules(ctx context.Context) ([]Schedule, error) {
	var result listResponse[Schedule]
	if err := c.get(ctx, "/schedules", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Repositories lists the repositories visible to the token
func (c *Client) Repositories(ctx context.Context) ([]Repository, error) {
	var result listResponse[Repository]
	if err := c.get(ctx, "/repositories", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Items lists the items stored in repository repo
func (c *Client) Items(ctx context.Context, repo string) ([]Item, error) {
	var result listResponse[Item]
	if err := c.get(ctx, "/repositories/"+url.PathEscape(repo)+"/items", &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// Ping checks that the server answers with the configured token
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/repositories?limit=1", nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + apiPrefix + path

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return mdwerror.Wrap(err, "failed to create request").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("url", endpoint)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "fmetoken token="+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		code := mdwerror.CodeServiceUnavailable
		if ctx.Err() != nil {
			code = mdwerror.CodeTimeout
		}
		return mdwerror.Wrap(err, "request failed").
			WithCode(code).
			WithDetail("url", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		code := mdwerror.CodeExternalServiceError
		if resp.StatusCode == http.StatusUnauthorized {
			code = mdwerror.CodeUnauthorized
		}
		return mdwerror.Newf("request failed with status %d", resp.StatusCode).
			WithCode(code).
			WithDetail("url", endpoint).
			WithDetail("status", resp.StatusCode).
			WithDetail("body", strings.TrimSpace(string(bodyBytes)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return mdwerror.Wrap(err, "failed to decode response").
			WithCode(mdwerror.CodeExternalServiceError).
			WithDetail("url", endpoint)
	}
	return nil
}
