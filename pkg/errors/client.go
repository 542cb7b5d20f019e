// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import "errors"

// Validation is returned when a caller-supplied value is rejected, either
// locally (list id format, unbound list) or by the provider (HTTP 400/403).
type Validation struct {
	base
}

// Error returns the error message for Validation.
func (v Validation) Error() string {
	return v.error()
}

// NewValidation creates a new Validation error with the provided message.
func NewValidation(message string, err ...error) Validation {
	return Validation{base: newBase(message, err)}
}

// NotFound is returned when the provider reports a resource as absent.
type NotFound struct {
	base
}

// Error returns the error message for NotFound.
func (n NotFound) Error() string {
	return n.error()
}

// NewNotFound creates a new NotFound error with the provided message.
func NewNotFound(message string, err ...error) NotFound {
	return NotFound{base: newBase(message, err)}
}

// Conflict is returned when the provider refuses a write because the
// resource already exists.
type Conflict struct {
	base
}

// Error returns the error message for Conflict.
func (c Conflict) Error() string {
	return c.error()
}

// NewConflict creates a new Conflict error with the provided message.
func NewConflict(message string, err ...error) Conflict {
	return Conflict{base: newBase(message, err)}
}

// Unauthorized is returned when the provider rejects the credentials.
type Unauthorized struct {
	base
}

// Error returns the error message for Unauthorized.
func (u Unauthorized) Error() string {
	return u.error()
}

// NewUnauthorized creates a new Unauthorized error with the provided message.
func NewUnauthorized(message string, err ...error) Unauthorized {
	return Unauthorized{base: newBase(message, err)}
}

// IsNotFound reports whether any error in err's chain is a NotFound.
func IsNotFound(err error) bool {
	var nf NotFound
	return errors.As(err, &nf)
}

// IsRejected reports whether the provider refused a request because of its
// content (Validation, Conflict or NotFound), as opposed to an auth, network
// or availability failure.
func IsRejected(err error) bool {
	var (
		v  Validation
		c  Conflict
		nf NotFound
	)
	return errors.As(err, &v) || errors.As(err, &c) || errors.As(err, &nf)
}

func joinCauses(err []error) error {
	return errors.Join(err...)
}
