// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/redaction"
)

// FetchMember retrieves the member record for email.
// A member the provider does not know is reported with found == false.
func (s *MembershipService) FetchMember(ctx context.Context, email string) (member *model.Member, found bool, err error) {
	ctx, span := s.startSpan(ctx, "fetch_member")
	defer func() { endSpan(span, err) }()

	return s.fetchMember(ctx, email)
}

// ResolveStatus returns the member's status. A missing member, or one whose
// status is outside the known set, is reported with found == false.
func (s *MembershipService) ResolveStatus(ctx context.Context, email string) (status model.MemberStatus, found bool, err error) {
	ctx, span := s.startSpan(ctx, "resolve_status")
	defer func() { endSpan(span, err) }()

	return s.resolveStatus(ctx, email)
}

func (s *MembershipService) fetchMember(ctx context.Context, email string) (*model.Member, bool, error) {
	path, err := s.list.MemberPath(model.MemberKey(email))
	if err != nil {
		return nil, false, err
	}
	s.requireTransport()

	slog.DebugContext(ctx, "executing fetch member use case",
		"email", redaction.RedactEmail(email),
	)

	body, err := s.transport.Get(ctx, path)
	if err != nil {
		if errors.IsNotFound(err) {
			slog.DebugContext(ctx, "member not found",
				"email", redaction.RedactEmail(email),
			)
			return nil, false, nil
		}
		slog.ErrorContext(ctx, "failed to fetch member",
			"error", err,
			"email", redaction.RedactEmail(email),
		)
		return nil, false, err
	}

	var member model.Member
	if err := json.Unmarshal(body, &member); err != nil {
		return nil, false, errors.NewUnexpected("failed to decode member response", err)
	}

	return &member, true, nil
}

func (s *MembershipService) resolveStatus(ctx context.Context, email string) (model.MemberStatus, bool, error) {
	if err := s.list.RequireBound(); err != nil {
		return "", false, err
	}

	member, found, err := s.fetchMember(ctx, email)
	if err != nil || !found {
		return "", false, err
	}

	if !member.Status.IsKnown() {
		slog.WarnContext(ctx, "member has an unrecognized status, treating as absent",
			"email", redaction.RedactEmail(email),
			"status", member.Status,
		)
		return "", false, nil
	}

	return member.Status, true, nil
}
