// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
)

// MemberReader looks up members of the bound list.
// A missing member is reported with found == false, never with an error.
type MemberReader interface {
	FetchMember(ctx context.Context, email string) (member *model.Member, found bool, err error)
	ResolveStatus(ctx context.Context, email string) (status model.MemberStatus, found bool, err error)
}

// MemberWriter changes members of the bound list.
type MemberWriter interface {
	AddMember(ctx context.Context, email string, input model.MemberInput) (status model.MemberStatus, found bool, err error)
	UpdateMember(ctx context.Context, email string, input model.MemberInput) (member *model.Member, found bool, err error)
	UnsubscribeMember(ctx context.Context, email string) (member *model.Member, found bool, err error)
	DeleteMember(ctx context.Context, email string, hardDelete bool) (archived bool, err error)
}

// MemberReaderWriter combines member reads and writes.
type MemberReaderWriter interface {
	MemberReader
	MemberWriter

	// IsReady checks the provider behind the service.
	IsReady(ctx context.Context) error
}
