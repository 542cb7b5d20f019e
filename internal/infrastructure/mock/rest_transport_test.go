// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	errs "github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

const listID = "a1b2c3d4e5"

func TestMockTransport_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()

	body, err := m.Post(ctx, "lists/"+listID+"/members", map[string]any{
		"email_address": "Jane@Example.com",
		"status":        "subscribed",
	})
	require.NoError(t, err)

	var created model.Member
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, model.MemberKey("jane@example.com"), created.ID)
	assert.Equal(t, listID, created.ListID)
	assert.NotEmpty(t, created.UniqueEmailID)
	assert.Equal(t, "", created.MergeFields.FirstName())

	body, err = m.Get(ctx, "/lists/"+listID+"/members/"+created.ID+"/")
	require.NoError(t, err)
	var fetched model.Member
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, model.StatusSubscribed, fetched.Status)
	assert.Equal(t, 1, m.GetMemberCount(listID))
}

func TestMockTransport_CreateValidation(t *testing.T) {
	ctx := context.Background()
	path := "lists/" + listID + "/members"

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"status": "subscribed"}},
		{"unknown status", map[string]any{"email_address": "x@y.com", "status": "archived"}},
		{"missing status", map[string]any{"email_address": "x@y.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockTransport()
			_, err := m.Post(ctx, path, tt.body)
			assert.IsType(t, errs.Validation{}, err)
			assert.Zero(t, m.GetMemberCount(listID))
		})
	}

	t.Run("member exists", func(t *testing.T) {
		m := NewMockTransport()
		m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusPending})
		_, err := m.Post(ctx, path, map[string]any{"email_address": "X@y.com", "status": "subscribed"})
		require.Error(t, err)
		assert.IsType(t, errs.Validation{}, err)
		assert.Contains(t, err.Error(), "Member Exists")
	})
}

func TestMockTransport_PatchMergesFields(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	m.AddMember(listID, &model.Member{
		EmailAddress: "x@y.com",
		Status:       model.StatusSubscribed,
		MergeFields:  model.MergeFields{"FNAME": "X", "PHONE": "555"},
	})
	path := "lists/" + listID + "/members/" + model.MemberKey("x@y.com")

	body, err := m.Patch(ctx, path, map[string]any{
		"status":       "unsubscribed",
		"merge_fields": map[string]any{"LNAME": "Y"},
		"id":           "ignored",
	})
	require.NoError(t, err)

	var updated model.Member
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, model.StatusUnsubscribed, updated.Status)
	assert.Equal(t, model.MemberKey("x@y.com"), updated.ID)
	assert.Equal(t, model.MergeFields{"FNAME": "X", "LNAME": "Y", "PHONE": "555"}, updated.MergeFields)
	assert.NotEmpty(t, updated.LastChanged)

	_, err = m.Patch(ctx, path, map[string]any{"status": "archived"})
	assert.IsType(t, errs.Validation{}, err)

	_, err = m.Patch(ctx, "lists/"+listID+"/members/unknown", map[string]any{"status": "cleaned"})
	assert.True(t, errs.IsNotFound(err))
}

func TestMockTransport_PatchEmailAddress(t *testing.T) {
	ctx := context.Background()
	path := "lists/" + listID + "/members/" + model.MemberKey("x@y.com")

	t.Run("moves the member to the new key", func(t *testing.T) {
		m := NewMockTransport()
		m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusSubscribed})

		body, err := m.Patch(ctx, path, map[string]any{"email_address": "New@y.com"})
		require.NoError(t, err)

		var updated model.Member
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, model.MemberKey("new@y.com"), updated.ID)
		assert.Nil(t, m.GetMember(listID, "x@y.com"))
		assert.Equal(t, "New@y.com", m.GetMember(listID, "new@y.com")["email_address"])
		assert.Equal(t, 1, m.GetMemberCount(listID))

		_, err = m.Get(ctx, "lists/"+listID+"/members/"+model.MemberKey("new@y.com"))
		assert.NoError(t, err)
		_, err = m.Get(ctx, path)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("same address in another case keeps the key", func(t *testing.T) {
		m := NewMockTransport()
		m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusSubscribed})

		_, err := m.Patch(ctx, path, map[string]any{"email_address": "X@Y.com"})
		require.NoError(t, err)
		assert.Equal(t, "X@Y.com", m.GetMember(listID, "x@y.com")["email_address"])
	})

	t.Run("address of another member", func(t *testing.T) {
		m := NewMockTransport()
		m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusSubscribed})
		m.AddMember(listID, &model.Member{EmailAddress: "z@y.com", Status: model.StatusPending})

		_, err := m.Patch(ctx, path, map[string]any{"email_address": "z@y.com", "status": "cleaned"})
		assert.IsType(t, errs.Validation{}, err)
		assert.Equal(t, "subscribed", m.GetMember(listID, "x@y.com")["status"])
		assert.Equal(t, "pending", m.GetMember(listID, "z@y.com")["status"])
	})

	t.Run("blank address", func(t *testing.T) {
		m := NewMockTransport()
		m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusSubscribed})

		_, err := m.Patch(ctx, path, map[string]any{"email_address": ""})
		assert.IsType(t, errs.Validation{}, err)
		assert.Equal(t, "x@y.com", m.GetMember(listID, "x@y.com")["email_address"])
	})
}

func TestMockTransport_Delete(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	m.AddMember(listID, &model.Member{EmailAddress: "x@y.com", Status: model.StatusSubscribed})
	path := "lists/" + listID + "/members/" + model.MemberKey("x@y.com")

	require.NoError(t, m.Delete(ctx, path))
	assert.Nil(t, m.GetMember(listID, "x@y.com"))
	assert.True(t, errs.IsNotFound(m.Delete(ctx, path)))

	_, err := m.Get(ctx, path)
	assert.True(t, errs.IsNotFound(err))
}

func TestMockTransport_Overrides(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()
	path := "lists/" + listID + "/members/abc"

	m.SetResponseForPath("GET", path, []byte(`{"status":404}`))
	body, err := m.Get(ctx, path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":404}`, string(body))

	m.SetErrorForPath("GET", path, errs.NewServiceUnavailable("down"))
	_, err = m.Get(ctx, path)
	assert.IsType(t, errs.ServiceUnavailable{}, err)

	m.ClearAll()
	_, err = m.Get(ctx, path)
	assert.True(t, errs.IsNotFound(err))
	assert.Len(t, m.Calls(), 1)
}

func TestMockTransport_RecordsCalls(t *testing.T) {
	ctx := context.Background()
	m := NewMockTransport()

	require.NoError(t, m.IsReady(ctx))
	_, _ = m.Get(ctx, "lists/"+listID+"/members/abc")
	_ = m.Delete(ctx, "lists/"+listID+"/members/abc")

	calls := m.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, Call{Method: "GET", Path: "ping"}, calls[0])
	assert.Len(t, m.CallsFor("DELETE"), 1)
}

func TestMockTransport_UnknownRoute(t *testing.T) {
	m := NewMockTransport()
	_, err := m.Get(context.Background(), "lists")
	assert.True(t, errs.IsNotFound(err))
}

func TestMockTransport_CancelledContext(t *testing.T) {
	m := NewMockTransport()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Get(ctx, "ping")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Calls())
}

func TestParseMemberPath(t *testing.T) {
	tests := []struct {
		path      string
		listID    string
		memberKey string
		ok        bool
	}{
		{"lists/abc/members", "abc", "", true},
		{"lists/abc/members/123", "abc", "123", true},
		{"lists//members", "", "", false},
		{"lists/abc/segments", "", "", false},
		{"lists/abc/members/123/notes", "", "", false},
		{"ping", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			listID, memberKey, ok := parseMemberPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.listID, listID)
			assert.Equal(t, tt.memberKey, memberKey)
		})
	}
}
