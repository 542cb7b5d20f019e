// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mailchimp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/httpclient"
)

// parseProblem decodes a problem document, returning nil when the body is
// not one.
func parseProblem(body string) *ProblemDetail {
	var problem ProblemDetail
	if err := json.Unmarshal([]byte(body), &problem); err != nil || problem.Title == "" {
		return nil
	}
	return &problem
}

// describe renders the problem title and detail for error messages.
func (p *ProblemDetail) describe() string {
	if p == nil {
		return ""
	}
	msg := p.Title
	if p.Detail != "" {
		msg += ": " + p.Detail
	}
	if len(p.Errors) > 0 {
		fields := make([]string, 0, len(p.Errors))
		for _, fe := range p.Errors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field, fe.Message))
		}
		msg += " [" + strings.Join(fields, ", ") + "]"
	}
	return msg
}

// MapHTTPError maps httpclient errors to domain errors with proper context logging
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *httpclient.StatusError
	if stderrors.As(err, &statusErr) {
		problem := parseProblem(statusErr.Body)

		slog.DebugContext(ctx, "Mailchimp HTTP error occurred",
			"status_code", statusErr.StatusCode,
			"problem", problem.describe(),
		)

		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFound("resource not found in Mailchimp", err)
		case http.StatusConflict:
			return errors.NewConflict("resource already exists in Mailchimp", err)
		case http.StatusUnauthorized:
			return errors.NewUnauthorized("Mailchimp authentication failed", err)
		case http.StatusForbidden:
			return errors.NewValidation("Mailchimp access denied", err)
		case http.StatusTooManyRequests:
			return errors.NewServiceUnavailable("Mailchimp rate limited", err)
		case http.StatusBadRequest:
			return errors.NewValidation(fmt.Sprintf("Mailchimp validation error: %s", problem.describe()), err)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable("Mailchimp service unavailable", err)
		default:
			slog.ErrorContext(ctx, "unexpected Mailchimp HTTP status code",
				"status_code", statusErr.StatusCode,
				"problem", problem.describe(),
			)
			return errors.NewUnexpected("Mailchimp API error", err)
		}
	}

	// network, timeout, cancellation
	slog.ErrorContext(ctx, "Mailchimp request failed with non-HTTP error",
		"error", err.Error(),
	)
	return errors.NewUnexpected("Mailchimp request failed", err)
}
