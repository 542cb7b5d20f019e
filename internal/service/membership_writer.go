// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/redaction"
)

// AddMember creates email on the list and returns the status the provider
// reports for it afterwards. input.Status defaults to subscribed.
//
// A creation the provider rejects (existing member, invalid data) or a
// response without an email address is reported with found == false.
// Whether an existing member is rejected or upserted is up to the provider.
func (s *MembershipService) AddMember(ctx context.Context, email string, input model.MemberInput) (status model.MemberStatus, found bool, err error) {
	ctx, span := s.startSpan(ctx, "add_member")
	defer func() { endSpan(span, err) }()

	path, err := s.list.ResourcePath()
	if err != nil {
		return "", false, err
	}
	s.requireTransport()

	memberStatus := input.Status
	if memberStatus == "" {
		memberStatus = model.StatusSubscribed
	}

	slog.DebugContext(ctx, "executing add member use case",
		"email", redaction.RedactEmail(email),
		"status", memberStatus,
		"extra_fields", len(input.Extra),
	)

	body, err := s.transport.Post(ctx, path, buildCreatePayload(email, memberStatus, input))
	if err != nil {
		if errors.IsRejected(err) {
			slog.WarnContext(ctx, "member creation rejected by provider",
				"error", err,
				"email", redaction.RedactEmail(email),
			)
			return "", false, nil
		}
		slog.ErrorContext(ctx, "failed to create member",
			"error", err,
			"email", redaction.RedactEmail(email),
		)
		return "", false, err
	}

	var created model.Member
	if err := json.Unmarshal(body, &created); err != nil || created.EmailAddress == "" {
		slog.WarnContext(ctx, "member creation returned no member",
			"email", redaction.RedactEmail(email),
		)
		return "", false, nil
	}

	slog.DebugContext(ctx, "member created successfully",
		"email", redaction.RedactEmail(created.EmailAddress),
		"member_id", created.ID,
	)

	return s.resolveStatus(ctx, created.EmailAddress)
}

// UpdateMember changes an existing member and returns the provider's record.
// Blank input fields keep their current remote values. A member that does
// not exist is reported with found == false; it is never created.
func (s *MembershipService) UpdateMember(ctx context.Context, email string, input model.MemberInput) (member *model.Member, found bool, err error) {
	ctx, span := s.startSpan(ctx, "update_member")
	defer func() { endSpan(span, err) }()

	return s.updateMember(ctx, email, input)
}

// UnsubscribeMember sets the member's status to unsubscribed.
func (s *MembershipService) UnsubscribeMember(ctx context.Context, email string) (member *model.Member, found bool, err error) {
	ctx, span := s.startSpan(ctx, "unsubscribe_member")
	defer func() { endSpan(span, err) }()

	return s.updateMember(ctx, email, model.MemberInput{Status: model.StatusUnsubscribed})
}

// DeleteMember archives the member by setting its status to cleaned and
// reports whether the cleaned update found it. With hardDelete the member is
// first removed permanently; the cleaned update runs even when that removal
// fails, and both errors are returned together.
func (s *MembershipService) DeleteMember(ctx context.Context, email string, hardDelete bool) (archived bool, err error) {
	ctx, span := s.startSpan(ctx, "delete_member")
	defer func() { endSpan(span, err) }()

	var deleteErr error
	if hardDelete {
		path, err := s.list.MemberPath(model.MemberKey(email))
		if err != nil {
			return false, err
		}
		s.requireTransport()

		slog.DebugContext(ctx, "permanently deleting member",
			"email", redaction.RedactEmail(email),
		)

		if err := s.transport.Delete(ctx, path); err != nil && !errors.IsNotFound(err) {
			slog.ErrorContext(ctx, "failed to permanently delete member, archiving instead",
				"error", err,
				"email", redaction.RedactEmail(email),
			)
			deleteErr = err
		}
	}

	_, archived, updateErr := s.updateMember(ctx, email, model.MemberInput{Status: model.StatusCleaned})
	return archived, stderrors.Join(deleteErr, updateErr)
}

func (s *MembershipService) updateMember(ctx context.Context, email string, input model.MemberInput) (*model.Member, bool, error) {
	if err := s.list.RequireBound(); err != nil {
		return nil, false, err
	}

	slog.DebugContext(ctx, "executing update member use case",
		"email", redaction.RedactEmail(email),
		"status", input.Status,
	)

	if _, found, err := s.resolveStatus(ctx, email); err != nil || !found {
		return nil, false, err
	}

	existing, found, err := s.fetchMember(ctx, email)
	if err != nil || !found {
		return nil, false, err
	}

	remoteID := existing.ID
	if remoteID == "" {
		remoteID = model.MemberKey(email)
	}
	path, err := s.list.MemberPath(remoteID)
	if err != nil {
		return nil, false, err
	}

	body, err := s.transport.Patch(ctx, path, buildUpdatePayload(existing, input))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, false, nil
		}
		slog.ErrorContext(ctx, "failed to update member",
			"error", err,
			"email", redaction.RedactEmail(email),
			"member_id", remoteID,
		)
		return nil, false, err
	}

	var updated model.Member
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, false, errors.NewUnexpected("failed to decode updated member response", err)
	}

	slog.DebugContext(ctx, "member updated successfully",
		"member_id", updated.ID,
		"status", updated.Status,
	)

	return &updated, true, nil
}
