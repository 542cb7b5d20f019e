// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides the typed errors returned by the member service and
// its Mailchimp transport.
package errors

import "fmt"

// base holds the message and the optional cause shared by every error type.
type base struct {
	message string
	err     error
}

// error renders the message, followed by the cause when there is one.
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}

func newBase(message string, err []error) base {
	return base{
		message: message,
		err:     joinCauses(err),
	}
}
