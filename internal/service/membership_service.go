// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the member lifecycle use cases on top of the
// provider transport.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/log"
)

const tracerName = "github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/service"

// membershipServiceOption defines a function type for setting options on the service
type membershipServiceOption func(*MembershipService)

// WithListContext sets the list the service operates on
func WithListContext(list *model.ListContext) membershipServiceOption {
	return func(s *MembershipService) {
		s.list = list
	}
}

// WithTransport sets the provider transport
func WithTransport(transport port.RESTTransport) membershipServiceOption {
	return func(s *MembershipService) {
		s.transport = transport
	}
}

// MembershipService manages the members of one Mailchimp list.
//
// Every operation is a sequence of blocking transport calls; nothing is
// cached and concurrent operations on the same email are not coordinated.
type MembershipService struct {
	list      *model.ListContext
	transport port.RESTTransport
	tracer    trace.Tracer
}

var _ port.MemberReaderWriter = (*MembershipService)(nil)

// NewMembershipService creates a new membership service using the option pattern.
// Without WithListContext the service starts unbound.
func NewMembershipService(opts ...membershipServiceOption) *MembershipService {
	s := &MembershipService{
		list:   &model.ListContext{},
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns the list context the service is bound through.
func (s *MembershipService) List() *model.ListContext {
	return s.list
}

// MemberKey returns the provider addressing key for email.
func (s *MembershipService) MemberKey(email string) string {
	return model.MemberKey(email)
}

// IsReady checks the provider behind the service.
func (s *MembershipService) IsReady(ctx context.Context) error {
	s.requireTransport()
	return s.transport.IsReady(ctx)
}

func (s *MembershipService) requireTransport() {
	if s.transport == nil {
		panic("transport dependency is required but was not provided")
	}
}

// startSpan opens the operation span and tags the log context with the list.
func (s *MembershipService) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "membership."+operation,
		trace.WithAttributes(attribute.String("mailchimp.list_id", s.list.ListID())),
	)
	ctx = log.AppendCtx(ctx, slog.String("list_id", s.list.ListID()))
	ctx = log.AppendCtx(ctx, slog.String("operation", operation))
	return ctx, span
}

// endSpan records err on span and closes it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
