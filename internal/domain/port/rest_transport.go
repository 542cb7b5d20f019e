// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces for external dependencies and adapters.
package port

import "context"

// RESTTransport performs authenticated calls against the provider API.
// Paths are relative to the API root, e.g. "lists/{id}/members".
//
// Implementations report an absent resource with an errors.NotFound and
// otherwise return the provider's errors unchanged.
type RESTTransport interface {
	// Get returns the JSON body of the resource at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Post sends body as JSON and returns the JSON response.
	Post(ctx context.Context, path string, body any) ([]byte, error)

	// Patch sends body as JSON and returns the JSON response.
	Patch(ctx context.Context, path string, body any) ([]byte, error)

	// Delete removes the resource at path.
	Delete(ctx context.Context, path string) error

	// IsReady checks that the provider API is reachable with the configured
	// credentials.
	IsReady(ctx context.Context) error
}
