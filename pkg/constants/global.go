// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines global constants used throughout the member service.
package constants

// Service constants
const (
	// ServiceName is the name of this service
	ServiceName = "lfx-v2-mailchimp-member-service"
)

// HTTP header constants
const (
	// RequestIDHeader is the HTTP header name for request ID
	RequestIDHeader = "X-Request-Id"
)

// Environment variables
const (
	EnvMailchimpAPIKey      = "MAILCHIMP_API_KEY"
	EnvMailchimpAccessToken = "MAILCHIMP_ACCESS_TOKEN"
	EnvMailchimpDatacenter  = "MAILCHIMP_DATACENTER"
	EnvMailchimpBaseURL     = "MAILCHIMP_BASE_URL"
	EnvMailchimpTimeout     = "MAILCHIMP_TIMEOUT"
	EnvMailchimpMaxRetries  = "MAILCHIMP_MAX_RETRIES"
	EnvMailchimpRetryDelay  = "MAILCHIMP_RETRY_DELAY"
	// EnvMailchimpSource set to "mock" switches to the in-memory transport
	EnvMailchimpSource = "MAILCHIMP_SOURCE"
)
