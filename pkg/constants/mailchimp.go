// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Mailchimp resource paths, relative to the API root.
const (
	// ListMembersPathFormat formats a list id into its member collection path
	ListMembersPathFormat = "lists/%s/members"

	// PingPath is Mailchimp's health check endpoint
	PingPath = "ping"
)

// Mailchimp member payload keys
const (
	FieldEmailAddress = "email_address"
	FieldMergeFields  = "merge_fields"
	FieldStatus       = "status"

	MergeFieldFirstName = "FNAME"
	MergeFieldLastName  = "LNAME"
)
