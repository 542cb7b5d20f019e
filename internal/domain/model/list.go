// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the member service.
package model

import (
	stderrors "errors"
	"fmt"
	"regexp"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

// listIDLength is the length of the ids Mailchimp hands out for audiences.
const listIDLength = 10

var (
	// ErrInvalidIdentifier is wrapped by the Validation error Bind returns.
	ErrInvalidIdentifier = stderrors.New("invalid list id")

	// ErrListNotBound is wrapped by the Validation error returned by member
	// operations attempted before a list id is bound.
	ErrListNotBound = stderrors.New("list id not set")

	// only lower case list ids
	listIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)
)

// ListContext binds the member operations to one Mailchimp list.
//
// A ListContext is not safe for rebinding while member operations using it
// are in flight.
type ListContext struct {
	listID       string
	resourcePath string
}

// NewListContext returns a ListContext bound to listID.
func NewListContext(listID string) (*ListContext, error) {
	return (&ListContext{}).Bind(listID)
}

// IsValidListID reports whether listID is exactly 10 bytes long, or made only
// of lower case letters and digits.
func IsValidListID(listID string) bool {
	return len(listID) == listIDLength || listIDPattern.MatchString(listID)
}

// Bind validates listID and, on success, makes it the current list and
// derives the member resource path from it. On failure the previous binding
// is kept.
func (l *ListContext) Bind(listID string) (*ListContext, error) {
	if !IsValidListID(listID) {
		return l, errors.NewValidation(
			fmt.Sprintf("list id %q must be %d characters long or lower case alphanumeric", listID, listIDLength),
			ErrInvalidIdentifier,
		)
	}

	l.listID = listID
	l.resourcePath = fmt.Sprintf(constants.ListMembersPathFormat, listID)

	return l, nil
}

// RequireBound fails when no list id is bound.
func (l *ListContext) RequireBound() error {
	if l == nil || l.listID == "" {
		return errors.NewValidation("list id not set, bind a list before member operations", ErrListNotBound)
	}
	return nil
}

// ListID returns the bound list id, empty when unbound.
func (l *ListContext) ListID() string {
	if l == nil {
		return ""
	}
	return l.listID
}

// ResourcePath returns the member collection path, lists/{id}/members.
func (l *ListContext) ResourcePath() (string, error) {
	if err := l.RequireBound(); err != nil {
		return "", err
	}
	return l.resourcePath, nil
}

// MemberPath returns the path of a single member resource.
func (l *ListContext) MemberPath(memberKey string) (string, error) {
	path, err := l.ResourcePath()
	if err != nil {
		return "", err
	}
	return path + "/" + memberKey, nil
}
