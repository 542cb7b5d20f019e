// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mailchimp

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
)

// baseURLFormat formats a datacenter ("us6") into the API root.
const baseURLFormat = "https://%s.api.mailchimp.com/3.0"

// Config holds the configuration for the Mailchimp client
type Config struct {
	// APIKey authenticates with HTTP basic auth. Its suffix ("-us6") names
	// the datacenter.
	APIKey string

	// AccessToken is an OAuth2 access token, used instead of APIKey.
	AccessToken string

	// Datacenter overrides the datacenter derived from APIKey. Required with
	// AccessToken unless BaseURL is set.
	Datacenter string

	// BaseURL overrides the API root entirely (tests, proxies)
	BaseURL string

	// Timeout is the HTTP client timeout for requests
	Timeout time.Duration

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration

	// MockMode disables real Mailchimp API calls (for testing)
	MockMode bool
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		RetryDelay: 500 * time.Millisecond,
		MockMode:   false,
	}
}

// NewConfigFromEnv creates a Config from environment variables
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if apiKey := os.Getenv(constants.EnvMailchimpAPIKey); apiKey != "" {
		config.APIKey = apiKey
	}

	if token := os.Getenv(constants.EnvMailchimpAccessToken); token != "" {
		config.AccessToken = token
	}

	if dc := os.Getenv(constants.EnvMailchimpDatacenter); dc != "" {
		config.Datacenter = dc
	}

	if baseURL := os.Getenv(constants.EnvMailchimpBaseURL); baseURL != "" {
		config.BaseURL = baseURL
	}

	if timeoutStr := os.Getenv(constants.EnvMailchimpTimeout); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	if retriesStr := os.Getenv(constants.EnvMailchimpMaxRetries); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil {
			config.MaxRetries = retries
		}
	}

	if delayStr := os.Getenv(constants.EnvMailchimpRetryDelay); delayStr != "" {
		if delay, err := time.ParseDuration(delayStr); err == nil {
			config.RetryDelay = delay
		}
	}

	if source := os.Getenv(constants.EnvMailchimpSource); source == "mock" {
		config.MockMode = true
	}

	return config
}

// datacenter returns the configured datacenter, or the one encoded in the
// API key after its last dash.
func (c Config) datacenter() string {
	if c.Datacenter != "" {
		return c.Datacenter
	}
	if i := strings.LastIndex(c.APIKey, "-"); i >= 0 && i < len(c.APIKey)-1 {
		return c.APIKey[i+1:]
	}
	return ""
}

// ResolveBaseURL returns the API root the client talks to.
func (c Config) ResolveBaseURL() (string, error) {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/"), nil
	}

	dc := c.datacenter()
	if dc == "" {
		return "", fmt.Errorf("cannot determine Mailchimp datacenter: set %s or use an API key ending in -<dc>",
			constants.EnvMailchimpDatacenter)
	}

	return fmt.Sprintf(baseURLFormat, dc), nil
}
