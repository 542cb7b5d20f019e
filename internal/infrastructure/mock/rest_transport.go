// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides an in-memory Mailchimp transport for tests and for
// running the CLI without credentials.
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

// Call is one request received by the MockTransport.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// MockTransport emulates the Mailchimp member endpoints in memory.
// Member records are kept as raw JSON objects so that extra fields survive.
type MockTransport struct {
	mu sync.Mutex

	// listID -> member key -> record
	members map[string]map[string]map[string]any

	calls     []Call
	errors    map[string]error
	responses map[string][]byte
}

var _ port.RESTTransport = (*MockTransport)(nil)

// NewMockTransport returns an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		members:   make(map[string]map[string]map[string]any),
		errors:    make(map[string]error),
		responses: make(map[string][]byte),
	}
}

func callKey(method, path string) string {
	return method + " " + strings.Trim(path, "/")
}

// SetErrorForPath makes every method call on path fail with err.
func (m *MockTransport) SetErrorForPath(method, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[callKey(method, path)] = err
}

// SetResponseForPath makes every method call on path return body verbatim.
func (m *MockTransport) SetResponseForPath(method, path string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[callKey(method, path)] = body
}

// AddMember seeds a member record in listID.
func (m *MockTransport) AddMember(listID string, member *model.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := map[string]any{
		constants.FieldEmailAddress: member.EmailAddress,
		constants.FieldStatus:       string(member.Status),
	}
	if member.MergeFields != nil {
		record[constants.FieldMergeFields] = maps.Clone(map[string]any(member.MergeFields))
	}
	m.storeLocked(listID, record)
}

// GetMember returns a copy of the stored record for email, or nil.
func (m *MockTransport) GetMember(listID, email string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.members[listID][model.MemberKey(email)]
	if !ok {
		return nil
	}
	return maps.Clone(record)
}

// GetMemberCount returns the number of members stored for listID.
func (m *MockTransport) GetMemberCount(listID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.members[listID])
}

// Calls returns the recorded requests in order.
func (m *MockTransport) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsFor returns the recorded requests with the given method.
func (m *MockTransport) CallsFor(method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// ClearAll drops every member, recorded call and configured failure.
func (m *MockTransport) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members = make(map[string]map[string]map[string]any)
	m.calls = nil
	m.errors = make(map[string]error)
	m.responses = make(map[string][]byte)
}

// Get implements port.RESTTransport.
func (m *MockTransport) Get(ctx context.Context, path string) ([]byte, error) {
	return m.handle(ctx, http.MethodGet, path, nil)
}

// Post implements port.RESTTransport.
func (m *MockTransport) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return m.handle(ctx, http.MethodPost, path, body)
}

// Patch implements port.RESTTransport.
func (m *MockTransport) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return m.handle(ctx, http.MethodPatch, path, body)
}

// Delete implements port.RESTTransport.
func (m *MockTransport) Delete(ctx context.Context, path string) error {
	_, err := m.handle(ctx, http.MethodDelete, path, nil)
	return err
}

// IsReady implements port.RESTTransport.
func (m *MockTransport) IsReady(ctx context.Context) error {
	_, err := m.handle(ctx, http.MethodGet, constants.PingPath, nil)
	return err
}

func (m *MockTransport) handle(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := toObject(body)
	if err != nil {
		return nil, errors.NewValidation("request body is not a JSON object", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	path = strings.Trim(path, "/")
	m.calls = append(m.calls, Call{Method: method, Path: path, Body: payload})

	slog.DebugContext(ctx, "mock Mailchimp call", "method", method, "path", path)

	key := callKey(method, path)
	if err, ok := m.errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.responses[key]; ok {
		return resp, nil
	}

	if path == constants.PingPath && method == http.MethodGet {
		return json.Marshal(map[string]string{"health_status": "Everything's Chimpy!"})
	}

	listID, memberKey, ok := parseMemberPath(path)
	if !ok {
		return nil, errors.NewNotFound(fmt.Sprintf("no mock route for %s %s", method, path))
	}

	switch {
	case memberKey == "" && method == http.MethodPost:
		return m.createLocked(listID, payload)
	case memberKey != "" && method == http.MethodGet:
		record, found := m.members[listID][memberKey]
		if !found {
			return nil, errors.NewNotFound("Resource Not Found")
		}
		return json.Marshal(record)
	case memberKey != "" && method == http.MethodPatch:
		return m.updateLocked(listID, memberKey, payload)
	case memberKey != "" && method == http.MethodDelete:
		if _, found := m.members[listID][memberKey]; !found {
			return nil, errors.NewNotFound("Resource Not Found")
		}
		delete(m.members[listID], memberKey)
		return nil, nil
	}

	return nil, errors.NewValidation(fmt.Sprintf("method %s not allowed on %s", method, path))
}

func (m *MockTransport) createLocked(listID string, payload map[string]any) ([]byte, error) {
	email, _ := payload[constants.FieldEmailAddress].(string)
	if email == "" {
		return nil, errors.NewValidation("Invalid Resource: email_address is required")
	}

	status, _ := payload[constants.FieldStatus].(string)
	if !model.MemberStatus(status).IsKnown() {
		return nil, errors.NewValidation(fmt.Sprintf("Invalid Resource: unknown status %q", status))
	}

	if _, exists := m.members[listID][model.MemberKey(email)]; exists {
		return nil, errors.NewValidation(fmt.Sprintf("Member Exists: %s is already a list member", email))
	}

	record := m.storeLocked(listID, payload)
	return json.Marshal(record)
}

func (m *MockTransport) updateLocked(listID, memberKey string, payload map[string]any) ([]byte, error) {
	record, found := m.members[listID][memberKey]
	if !found {
		return nil, errors.NewNotFound("Resource Not Found")
	}

	if status, present := payload[constants.FieldStatus]; present {
		if s, _ := status.(string); !model.MemberStatus(s).IsKnown() {
			return nil, errors.NewValidation(fmt.Sprintf("Invalid Resource: unknown status %v", status))
		}
	}

	newKey := memberKey
	if email, present := payload[constants.FieldEmailAddress]; present {
		address, _ := email.(string)
		if address == "" {
			return nil, errors.NewValidation("Invalid Resource: email_address is required")
		}
		newKey = model.MemberKey(address)
		if _, taken := m.members[listID][newKey]; taken && newKey != memberKey {
			return nil, errors.NewValidation(fmt.Sprintf("Member Exists: %s is already a list member", address))
		}
	}

	for k, v := range payload {
		switch k {
		case "id", "list_id", "unique_email_id":
			// read only
		case constants.FieldMergeFields:
			merged, _ := record[k].(map[string]any)
			merged = maps.Clone(merged)
			if merged == nil {
				merged = map[string]any{}
			}
			if fields, ok := v.(map[string]any); ok {
				maps.Copy(merged, fields)
			}
			record[k] = merged
		default:
			record[k] = v
		}
	}
	record["last_changed"] = time.Now().UTC().Format(time.RFC3339)

	// the member id follows the email address
	if newKey != memberKey {
		delete(m.members[listID], memberKey)
		record["id"] = newKey
		m.members[listID][newKey] = record
	}

	return json.Marshal(record)
}

func (m *MockTransport) storeLocked(listID string, payload map[string]any) map[string]any {
	email, _ := payload[constants.FieldEmailAddress].(string)
	memberKey := model.MemberKey(email)

	record := maps.Clone(payload)
	if fields, ok := record[constants.FieldMergeFields].(map[string]any); !ok || fields == nil {
		record[constants.FieldMergeFields] = map[string]any{
			constants.MergeFieldFirstName: "",
			constants.MergeFieldLastName:  "",
		}
	}
	record["id"] = memberKey
	record["list_id"] = listID
	record["unique_email_id"] = uuid.New().String()[:10]
	record["timestamp_opt"] = time.Now().UTC().Format(time.RFC3339)

	if m.members[listID] == nil {
		m.members[listID] = make(map[string]map[string]any)
	}
	m.members[listID][memberKey] = record

	return record
}

// parseMemberPath splits lists/{id}/members[/{key}].
func parseMemberPath(path string) (listID, memberKey string, ok bool) {
	parts := strings.Split(path, "/")
	if len(parts) < 3 || len(parts) > 4 || parts[0] != "lists" || parts[2] != "members" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 4 {
		return parts[1], parts[3], parts[3] != ""
	}
	return parts[1], "", true
}

// toObject round-trips body through JSON so that the mock sees exactly what
// the real API would receive.
func toObject(body any) (map[string]any, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
