// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/infrastructure/mock"
	errs "github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

const collectionPath = "lists/" + testListID + "/members"

func seedJane(m *mock.MockTransport) {
	m.AddMember(testListID, &model.Member{
		EmailAddress: "jane@example.com",
		Status:       model.StatusPending,
		MergeFields:  model.MergeFields{"FNAME": "Jane", "LNAME": "Doe"},
	})
}

func TestMembershipService_AddMember(t *testing.T) {
	testCases := []struct {
		name           string
		email          string
		input          model.MemberInput
		setupMock      func(*mock.MockTransport)
		expectedStatus model.MemberStatus
		expectedFound  bool
		expectedError  error
		validate       func(t *testing.T, m *mock.MockTransport)
	}{
		{
			name:           "defaults to subscribed with blank names",
			email:          "x@y.com",
			setupMock:      func(*mock.MockTransport) {},
			expectedStatus: model.StatusSubscribed,
			expectedFound:  true,
			validate: func(t *testing.T, m *mock.MockTransport) {
				posts := m.CallsFor("POST")
				require.Len(t, posts, 1)
				assert.Equal(t, collectionPath, posts[0].Path)
				assert.Equal(t, map[string]any{
					"email_address": "x@y.com",
					"merge_fields":  map[string]any{"FNAME": "", "LNAME": ""},
					"status":        "subscribed",
				}, posts[0].Body)
			},
		},
		{
			name:           "explicit status and names",
			email:          "jane@example.com",
			input:          model.MemberInput{Status: model.StatusPending, FirstName: "Jane", LastName: "Doe"},
			setupMock:      func(*mock.MockTransport) {},
			expectedStatus: model.StatusPending,
			expectedFound:  true,
			validate: func(t *testing.T, m *mock.MockTransport) {
				stored := m.GetMember(testListID, "jane@example.com")
				require.NotNil(t, stored)
				assert.Equal(t, map[string]any{"FNAME": "Jane", "LNAME": "Doe"}, stored["merge_fields"])
			},
		},
		{
			name:  "extra fields win over computed ones",
			email: "x@y.com",
			input: model.MemberInput{
				Status: model.StatusSubscribed,
				Extra:  map[string]any{"status": "pending", "language": "fr"},
			},
			setupMock:      func(*mock.MockTransport) {},
			expectedStatus: model.StatusPending,
			expectedFound:  true,
			validate: func(t *testing.T, m *mock.MockTransport) {
				stored := m.GetMember(testListID, "x@y.com")
				assert.Equal(t, "fr", stored["language"])
				assert.Equal(t, "pending", stored["status"])
			},
		},
		{
			name:  "existing member is rejected by the provider",
			email: "jane@example.com",
			setupMock: func(m *mock.MockTransport) {
				seedJane(m)
			},
			expectedFound: false,
			validate: func(t *testing.T, m *mock.MockTransport) {
				assert.Empty(t, m.CallsFor("GET"), "no status lookup after a rejected creation")
				stored := m.GetMember(testListID, "jane@example.com")
				assert.Equal(t, "pending", stored["status"])
			},
		},
		{
			name:  "conflict is a rejection",
			email: "x@y.com",
			setupMock: func(m *mock.MockTransport) {
				m.SetErrorForPath("POST", collectionPath, errs.NewConflict("already exists"))
			},
			expectedFound: false,
		},
		{
			name:  "response without email address",
			email: "x@y.com",
			setupMock: func(m *mock.MockTransport) {
				m.SetResponseForPath("POST", collectionPath, []byte(`{"id":"abc"}`))
			},
			expectedFound: false,
			validate: func(t *testing.T, m *mock.MockTransport) {
				assert.Empty(t, m.CallsFor("GET"))
			},
		},
		{
			name:  "auth failure propagates",
			email: "x@y.com",
			setupMock: func(m *mock.MockTransport) {
				m.SetErrorForPath("POST", collectionPath, errs.NewUnauthorized("API Key Invalid"))
			},
			expectedError: errs.Unauthorized{},
		},
		{
			name:  "provider outage propagates",
			email: "x@y.com",
			setupMock: func(m *mock.MockTransport) {
				m.SetErrorForPath("POST", collectionPath, errs.NewServiceUnavailable("try again later"))
			},
			expectedError: errs.ServiceUnavailable{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, transport := newTestService(t)
			tc.setupMock(transport)

			status, found, err := svc.AddMember(context.Background(), tc.email, tc.input)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.IsType(t, tc.expectedError, err)
				assert.False(t, found)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedFound, found)
			assert.Equal(t, tc.expectedStatus, status)
			if tc.validate != nil {
				tc.validate(t, transport)
			}
		})
	}
}

func TestMembershipService_AddMember_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, found, err := svc.AddMember(ctx, "x@y.com", model.MemberInput{
		Status:    model.StatusSubscribed,
		FirstName: "F",
		LastName:  "L",
	})
	require.NoError(t, err)
	require.True(t, found)

	status, found, err := svc.ResolveStatus(ctx, "x@y.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model.StatusSubscribed, status)

	member, found, err := svc.FetchMember(ctx, "x@y.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "F", member.MergeFields.FirstName())
	assert.Equal(t, "L", member.MergeFields.LastName())
}

func TestMembershipService_UpdateMember(t *testing.T) {
	testCases := []struct {
		name          string
		input         model.MemberInput
		setupMock     func(*mock.MockTransport)
		expectedFound bool
		expectedError error
		validate      func(t *testing.T, member *model.Member, m *mock.MockTransport)
	}{
		{
			name:          "blank input keeps remote values",
			setupMock:     seedJane,
			expectedFound: true,
			validate: func(t *testing.T, member *model.Member, m *mock.MockTransport) {
				assert.Equal(t, model.StatusPending, member.Status)
				assert.Equal(t, "Jane", member.MergeFields.FirstName())
				assert.Equal(t, "Doe", member.MergeFields.LastName())

				patches := m.CallsFor("PATCH")
				require.Len(t, patches, 1)
				assert.Equal(t, map[string]any{
					"email_address": "jane@example.com",
					"merge_fields":  map[string]any{"FNAME": "Jane", "LNAME": "Doe"},
					"status":        "pending",
				}, patches[0].Body)
			},
		},
		{
			name:          "only given fields change",
			input:         model.MemberInput{Status: model.StatusSubscribed, LastName: "Smith"},
			setupMock:     seedJane,
			expectedFound: true,
			validate: func(t *testing.T, member *model.Member, _ *mock.MockTransport) {
				assert.Equal(t, model.StatusSubscribed, member.Status)
				assert.Equal(t, "Jane", member.MergeFields.FirstName())
				assert.Equal(t, "Smith", member.MergeFields.LastName())
			},
		},
		{
			name: "extra fields are sent verbatim",
			input: model.MemberInput{
				Extra: map[string]any{"vip": true, "email_address": "jane.doe@example.com"},
			},
			setupMock:     seedJane,
			expectedFound: true,
			validate: func(t *testing.T, _ *model.Member, m *mock.MockTransport) {
				patches := m.CallsFor("PATCH")
				require.Len(t, patches, 1)
				assert.Equal(t, true, patches[0].Body["vip"])
				assert.Equal(t, "jane.doe@example.com", patches[0].Body["email_address"])
			},
		},
		{
			name:          "patch addresses the remote id",
			setupMock:     seedJane,
			expectedFound: true,
			validate: func(t *testing.T, _ *model.Member, m *mock.MockTransport) {
				calls := m.Calls()
				require.Len(t, calls, 3)
				assert.Equal(t, "GET", calls[0].Method)
				assert.Equal(t, "GET", calls[1].Method)
				assert.Equal(t, "PATCH", calls[2].Method)
				assert.Equal(t, memberPath("jane@example.com"), calls[2].Path)
			},
		},
		{
			name:          "missing member is never created",
			input:         model.MemberInput{Status: model.StatusSubscribed},
			setupMock:     func(*mock.MockTransport) {},
			expectedFound: false,
			validate: func(t *testing.T, _ *model.Member, m *mock.MockTransport) {
				assert.Empty(t, m.CallsFor("PATCH"))
				assert.Empty(t, m.CallsFor("POST"))
				assert.Zero(t, m.GetMemberCount(testListID))
			},
		},
		{
			name:  "member with unknown status is not updated",
			input: model.MemberInput{Status: model.StatusSubscribed},
			setupMock: func(m *mock.MockTransport) {
				m.AddMember(testListID, &model.Member{EmailAddress: "jane@example.com", Status: "archived"})
			},
			expectedFound: false,
			validate: func(t *testing.T, _ *model.Member, m *mock.MockTransport) {
				assert.Empty(t, m.CallsFor("PATCH"))
			},
		},
		{
			name:  "member removed before the patch",
			setupMock: func(m *mock.MockTransport) {
				seedJane(m)
				m.SetErrorForPath("PATCH", memberPath("jane@example.com"), errs.NewNotFound("Resource Not Found"))
			},
			expectedFound: false,
		},
		{
			name:  "invalid status is rejected by the provider",
			input: model.MemberInput{Status: "archived"},
			setupMock: func(m *mock.MockTransport) {
				seedJane(m)
			},
			expectedError: errs.Validation{},
		},
		{
			name: "patch failure propagates",
			setupMock: func(m *mock.MockTransport) {
				seedJane(m)
				m.SetErrorForPath("PATCH", memberPath("jane@example.com"), errs.NewServiceUnavailable("try again later"))
			},
			expectedError: errs.ServiceUnavailable{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, transport := newTestService(t)
			tc.setupMock(transport)

			member, found, err := svc.UpdateMember(context.Background(), "jane@example.com", tc.input)

			if tc.expectedError != nil {
				require.Error(t, err)
				assert.IsType(t, tc.expectedError, err)
				assert.False(t, found)
				assert.Nil(t, member)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedFound, found)
			if tc.expectedFound {
				require.NotNil(t, member)
			} else {
				assert.Nil(t, member)
			}
			if tc.validate != nil {
				tc.validate(t, member, transport)
			}
		})
	}
}

func TestMembershipService_UpdateMember_ChangesEmail(t *testing.T) {
	ctx := context.Background()
	svc, transport := newTestService(t)
	seedJane(transport)

	member, found, err := svc.UpdateMember(ctx, "jane@example.com", model.MemberInput{
		Extra: map[string]any{"email_address": "jane.doe@example.com"},
	})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "jane.doe@example.com", member.EmailAddress)
	assert.Equal(t, model.MemberKey("jane.doe@example.com"), member.ID)

	status, found, err := svc.ResolveStatus(ctx, "jane.doe@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, model.StatusPending, status)

	_, found, err = svc.ResolveStatus(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMembershipService_UnsubscribeMatchesUpdate(t *testing.T) {
	ctx := context.Background()

	unsubscribeSvc, unsubscribeTransport := newTestService(t)
	seedJane(unsubscribeTransport)
	updateSvc, updateTransport := newTestService(t)
	seedJane(updateTransport)

	unsubscribed, found, err := unsubscribeSvc.UnsubscribeMember(ctx, "jane@example.com")
	require.NoError(t, err)
	require.True(t, found)

	updated, found, err := updateSvc.UpdateMember(ctx, "jane@example.com", model.MemberInput{Status: model.StatusUnsubscribed})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, updateTransport.Calls(), unsubscribeTransport.Calls())
	assert.Equal(t, model.StatusUnsubscribed, unsubscribed.Status)
	assert.Equal(t, updated.Status, unsubscribed.Status)
	assert.Equal(t, updated.EmailAddress, unsubscribed.EmailAddress)
	assert.Equal(t, updated.MergeFields, unsubscribed.MergeFields)
	assert.Equal(t, updated.ID, unsubscribed.ID)
}

func TestMembershipService_UnsubscribeMissingMember(t *testing.T) {
	svc, transport := newTestService(t)

	member, found, err := svc.UnsubscribeMember(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, member)
	assert.Empty(t, transport.CallsFor("PATCH"))
}

func TestMembershipService_DeleteMember(t *testing.T) {
	t.Run("soft delete cleans the member", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", false)
		require.NoError(t, err)
		assert.True(t, archived)

		assert.Empty(t, transport.CallsFor("DELETE"))
		patches := transport.CallsFor("PATCH")
		require.Len(t, patches, 1)
		assert.Equal(t, "cleaned", patches[0].Body["status"])
		assert.Equal(t, "cleaned", transport.GetMember(testListID, "jane@example.com")["status"])
	})

	t.Run("hard delete removes then cleans", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)
		// provider acknowledges the removal while the member is still readable
		transport.SetResponseForPath("DELETE", memberPath("jane@example.com"), nil)

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", true)
		require.NoError(t, err)
		assert.True(t, archived)

		calls := transport.Calls()
		require.NotEmpty(t, calls)
		assert.Equal(t, "DELETE", calls[0].Method)
		assert.Equal(t, memberPath("jane@example.com"), calls[0].Path)

		patches := transport.CallsFor("PATCH")
		require.Len(t, patches, 1)
		assert.Equal(t, memberPath("jane@example.com"), patches[0].Path)
		assert.Equal(t, "cleaned", patches[0].Body["status"])
	})

	t.Run("hard delete of a removed member skips the update", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", true)
		require.NoError(t, err)
		assert.False(t, archived)

		assert.Len(t, transport.CallsFor("DELETE"), 1)
		assert.Len(t, transport.CallsFor("GET"), 1, "the cleaned update still looks the member up")
		assert.Empty(t, transport.CallsFor("PATCH"))
		assert.Nil(t, transport.GetMember(testListID, "jane@example.com"))
	})

	t.Run("hard delete tolerates a missing member", func(t *testing.T) {
		svc, transport := newTestService(t)

		archived, err := svc.DeleteMember(context.Background(), "nobody@example.com", true)
		require.NoError(t, err)
		assert.False(t, archived)
		assert.Len(t, transport.CallsFor("DELETE"), 1)
	})

	t.Run("hard delete failure still cleans the member", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)
		transport.SetErrorForPath("DELETE", memberPath("jane@example.com"), errs.NewServiceUnavailable("try again later"))

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", true)

		var unavailable errs.ServiceUnavailable
		require.True(t, stderrors.As(err, &unavailable))
		assert.True(t, archived)

		patches := transport.CallsFor("PATCH")
		require.Len(t, patches, 1)
		assert.Equal(t, memberPath("jane@example.com"), patches[0].Path)
		assert.Equal(t, "cleaned", patches[0].Body["status"])
		assert.Equal(t, "cleaned", transport.GetMember(testListID, "jane@example.com")["status"])
	})

	t.Run("hard delete and update failures are both reported", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)
		transport.SetErrorForPath("DELETE", memberPath("jane@example.com"), errs.NewUnauthorized("forbidden delete"))
		transport.SetErrorForPath("PATCH", memberPath("jane@example.com"), errs.NewServiceUnavailable("try again later"))

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", true)

		assert.False(t, archived)
		var unauthorized errs.Unauthorized
		assert.True(t, stderrors.As(err, &unauthorized))
		var unavailable errs.ServiceUnavailable
		assert.True(t, stderrors.As(err, &unavailable))
	})

	t.Run("update failure propagates", func(t *testing.T) {
		svc, transport := newTestService(t)
		seedJane(transport)
		transport.SetErrorForPath("PATCH", memberPath("jane@example.com"), errs.NewUnauthorized("API Key Invalid"))

		archived, err := svc.DeleteMember(context.Background(), "jane@example.com", false)

		assert.False(t, archived)
		var unauthorized errs.Unauthorized
		assert.True(t, stderrors.As(err, &unauthorized))
	})
}
