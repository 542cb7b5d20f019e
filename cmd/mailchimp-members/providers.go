// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/infrastructure/mailchimp"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/service"
)

// mailchimpConfig layers the config file and flags over the environment.
func (a *app) mailchimpConfig() mailchimp.Config {
	cfg := mailchimp.NewConfigFromEnv()

	if a.v.IsSet("api_key") {
		cfg.APIKey = a.v.GetString("api_key")
	}
	if a.v.IsSet("access_token") {
		cfg.AccessToken = a.v.GetString("access_token")
	}
	if a.v.IsSet("datacenter") {
		cfg.Datacenter = a.v.GetString("datacenter")
	}
	if a.v.IsSet("base_url") {
		cfg.BaseURL = a.v.GetString("base_url")
	}
	if a.v.IsSet("timeout") && a.v.GetDuration("timeout") > 0 {
		cfg.Timeout = a.v.GetDuration("timeout")
	}
	if a.v.IsSet("max_retries") {
		cfg.MaxRetries = a.v.GetInt("max_retries")
	}
	if a.v.IsSet("retry_delay") {
		cfg.RetryDelay = a.v.GetDuration("retry_delay")
	}
	if a.v.GetBool("mock") || a.v.GetString("source") == "mock" {
		cfg.MockMode = true
	}

	return cfg
}

func (a *app) restTransport(ctx context.Context) (port.RESTTransport, error) {
	if a.transport != nil {
		return a.transport, nil
	}

	cfg := a.mailchimpConfig()
	if cfg.MockMode {
		slog.WarnContext(ctx, "using in-memory Mailchimp transport, no data reaches Mailchimp")
		a.transport = mock.NewMockTransport()
		return a.transport, nil
	}

	client, err := mailchimp.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	a.transport = client
	return a.transport, nil
}

// membershipService builds the service for the configured list. Without a
// list the service stays unbound and member commands fail accordingly.
func (a *app) membershipService(ctx context.Context) (*service.MembershipService, error) {
	transport, err := a.restTransport(ctx)
	if err != nil {
		return nil, err
	}

	list := &model.ListContext{}
	if listID := a.v.GetString("list"); listID != "" {
		if _, err := list.Bind(listID); err != nil {
			return nil, err
		}
	}

	return service.NewMembershipService(
		service.WithListContext(list),
		service.WithTransport(transport),
	), nil
}
