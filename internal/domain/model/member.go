// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"crypto/md5" //nolint:gosec // Mailchimp addresses members by the MD5 of the email
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
)

// MemberStatus is a member's subscription state on a list.
type MemberStatus string

// Known member statuses. The provider owns the transitions between them.
const (
	StatusSubscribed   MemberStatus = "subscribed"
	StatusUnsubscribed MemberStatus = "unsubscribed"
	StatusPending      MemberStatus = "pending"
	StatusCleaned      MemberStatus = "cleaned"
)

// KnownStatuses returns the closed set of member statuses.
func KnownStatuses() []MemberStatus {
	return []MemberStatus{
		StatusSubscribed,
		StatusUnsubscribed,
		StatusPending,
		StatusCleaned,
	}
}

// IsKnown reports whether s belongs to the closed status set.
func (s MemberStatus) IsKnown() bool {
	switch s {
	case StatusSubscribed, StatusUnsubscribed, StatusPending, StatusCleaned:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s MemberStatus) String() string {
	return string(s)
}

// UnmarshalJSON accepts any JSON scalar. Mailchimp error documents carry a
// numeric "status" (the HTTP code); it decodes to its text form, e.g. "404",
// which is not a known status.
func (s *MemberStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = MemberStatus(str)
		return nil
	}

	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		raw = ""
	}
	*s = MemberStatus(raw)
	return nil
}

// MergeFields holds a member's merge tags. Values are usually strings but
// Mailchimp also uses numbers and address objects.
type MergeFields map[string]any

// FirstName returns the FNAME merge tag.
func (m MergeFields) FirstName() string {
	return m.stringField(constants.MergeFieldFirstName)
}

// LastName returns the LNAME merge tag.
func (m MergeFields) LastName() string {
	return m.stringField(constants.MergeFieldLastName)
}

func (m MergeFields) stringField(key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Member is a list member as returned by Mailchimp. It is never stored
// locally.
type Member struct {
	// ID is the provider-assigned id used to address the member once known.
	ID            string       `json:"id,omitempty"`
	EmailAddress  string       `json:"email_address"`
	UniqueEmailID string       `json:"unique_email_id,omitempty"`
	Status        MemberStatus `json:"status"`
	MergeFields   MergeFields  `json:"merge_fields,omitempty"`
	ListID        string       `json:"list_id,omitempty"`
	TimestampOpt  string       `json:"timestamp_opt,omitempty"`
	LastChanged   string       `json:"last_changed,omitempty"`
}

// Exists reports whether the record describes a live member, that is one
// whose status is in the known set.
func (m *Member) Exists() bool {
	return m != nil && m.Status.IsKnown()
}

// MemberInput carries the caller-supplied values of add and update.
// Blank fields mean "not provided".
type MemberInput struct {
	Status    MemberStatus
	FirstName string
	LastName  string

	// Extra is merged into the request body at the top level; on key
	// collision the Extra value wins.
	Extra map[string]any
}

// MemberKey returns the provider's addressing key for email: the hex MD5 of
// the lower-cased address.
func MemberKey(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
