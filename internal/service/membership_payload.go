// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"maps"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
)

// buildCreatePayload builds the body of a member creation. Names left blank
// are sent as empty merge tags.
func buildCreatePayload(email string, status model.MemberStatus, input model.MemberInput) map[string]any {
	payload := map[string]any{
		constants.FieldEmailAddress: email,
		constants.FieldMergeFields: map[string]any{
			constants.MergeFieldFirstName: input.FirstName,
			constants.MergeFieldLastName:  input.LastName,
		},
		constants.FieldStatus: string(status),
	}

	return mergeExtra(payload, input.Extra)
}

// buildUpdatePayload builds the body of a member update. Every blank input
// field falls back to the existing remote value.
func buildUpdatePayload(existing *model.Member, input model.MemberInput) map[string]any {
	status := input.Status
	if status == "" {
		status = existing.Status
	}

	payload := map[string]any{
		constants.FieldEmailAddress: existing.EmailAddress,
		constants.FieldMergeFields: map[string]any{
			constants.MergeFieldFirstName: orDefault(input.FirstName, existing.MergeFields.FirstName()),
			constants.MergeFieldLastName:  orDefault(input.LastName, existing.MergeFields.LastName()),
		},
		constants.FieldStatus: string(status),
	}

	return mergeExtra(payload, input.Extra)
}

// mergeExtra copies extra over payload at the top level. Last write wins, so
// an extra "merge_fields" replaces the computed one entirely.
func mergeExtra(payload, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return payload
	}
	maps.Copy(payload, extra)
	return payload
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
