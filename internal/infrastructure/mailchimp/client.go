// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mailchimp implements the REST transport against the Mailchimp
// Marketing API v3.
package mailchimp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/redaction"
)

// basicAuthUser is ignored by Mailchimp; only the password (API key) counts.
const basicAuthUser = "anystring"

// apiKeyRoundTripper injects the API key as basic auth on every request.
type apiKeyRoundTripper struct {
	apiKey string
}

// RoundTrip sets basic auth and continues the chain.
func (rt *apiKeyRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.SetBasicAuth(basicAuthUser, rt.apiKey)
	return next(req)
}

// oauthRoundTripper injects an OAuth2 bearer token on every request.
type oauthRoundTripper struct {
	source oauth2.TokenSource
}

// RoundTrip sets the Authorization header from the token source.
func (rt *oauthRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	token, err := rt.source.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain Mailchimp access token: %w", err)
	}
	token.SetAuthHeader(req)
	return next(req)
}

// Client is the Mailchimp REST transport.
type Client struct {
	config     Config
	baseURL    string
	httpClient *httpclient.Client
}

var _ port.RESTTransport = (*Client)(nil)

// NewClient creates a new Mailchimp client with the given configuration
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" && cfg.AccessToken == "" {
		return nil, fmt.Errorf("an API key or an OAuth2 access token is required for the Mailchimp client")
	}

	baseURL, err := cfg.ResolveBaseURL()
	if err != nil {
		return nil, err
	}

	httpConfig := httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryDelay:   cfg.RetryDelay,
		RetryBackoff: true,
		MaxDelay:     30 * time.Second,
	}

	client := &Client{
		config:     cfg,
		baseURL:    baseURL,
		httpClient: httpclient.NewClient(httpConfig),
	}

	if cfg.AccessToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		})
		client.httpClient.AddRoundTripper(&oauthRoundTripper{source: source})
	} else {
		client.httpClient.AddRoundTripper(&apiKeyRoundTripper{apiKey: cfg.APIKey})
	}

	slog.InfoContext(context.Background(), "Mailchimp client initialized",
		"base_url", baseURL,
		"auth", client.authMode(),
		"api_key", redaction.RedactSecret(cfg.APIKey),
	)

	return client, nil
}

func (c *Client) authMode() string {
	if c.config.AccessToken != "" {
		return "oauth2"
	}
	return "api_key"
}

// Get fetches the resource at path.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodGet, path, nil)
}

// Post creates a resource under path.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodPost, path, body)
}

// Patch updates the resource at path.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodPatch, path, body)
}

// Delete permanently removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, path, nil)
	return err
}

// makeRequest centralizes all API calls with authentication and error handling
func (c *Client) makeRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	var payload []byte
	headers := map[string]string{
		"User-Agent": constants.ServiceName,
	}

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = data
		headers["Content-Type"] = "application/json"
	}

	slog.DebugContext(ctx, "calling Mailchimp API",
		"method", method,
		"path", path,
	)

	resp, err := c.httpClient.Request(ctx, method, reqURL, payload, headers)
	if err != nil {
		return nil, MapHTTPError(ctx, err)
	}

	return resp.Body, nil
}

// IsReady checks if Mailchimp API is accessible
func (c *Client) IsReady(ctx context.Context) error {
	body, err := c.Get(ctx, constants.PingPath)
	if err != nil {
		return fmt.Errorf("mailchimp API unreachable: %w", err)
	}

	var ping PingObject
	if err := json.Unmarshal(body, &ping); err != nil {
		return fmt.Errorf("mailchimp API returned an invalid ping response: %w", err)
	}

	slog.DebugContext(ctx, "Mailchimp API is ready", "health_status", ping.HealthStatus)

	return nil
}
