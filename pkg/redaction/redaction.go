// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package redaction masks personal data before it reaches the logs.
package redaction

import "strings"

const mask = "***"

// RedactEmail keeps the first character of the local part and the whole
// domain, e.g. "jane.doe@example.com" becomes "j***@example.com".
// Values that do not look like an email are fully masked.
func RedactEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return mask
	}
	return email[:1] + mask + email[at:]
}

// RedactSecret keeps the last four characters of a credential.
// Mailchimp API keys end with the datacenter ("-us6"), which stays readable.
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return mask
	}
	return mask + secret[len(secret)-4:]
}
