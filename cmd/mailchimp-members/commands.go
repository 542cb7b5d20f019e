// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/pkg/errors"
)

const defaultStatusConcurrency = 4

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that Mailchimp is reachable with the configured credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.IsReady(cmd.Context()); err != nil {
				return err
			}
			return a.print(pingResult{Status: "ok"})
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <email>",
		Short: "Show a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			member, found, err := svc.FetchMember(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(newMemberResult(args[0], member, found))
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "status <email>...",
		Short: "Resolve the status of one or more members",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}

			results := make([]memberResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(concurrency, 1))
			for i, email := range args {
				g.Go(func() error {
					status, found, err := svc.ResolveStatus(ctx, email)
					if err != nil {
						return fmt.Errorf("resolving %s: %w", email, err)
					}
					results[i] = memberResult{Email: email, Found: found, Status: status}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			return a.print(results)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", defaultStatusConcurrency, "Lookups in flight at once.")
	return cmd
}

type memberFlags struct {
	status    string
	firstName string
	lastName  string
	fields    []string
}

func (f *memberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "", "subscribed|unsubscribed|pending|cleaned")
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "FNAME merge field.")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "LNAME merge field.")
	cmd.Flags().StringArrayVar(&f.fields, "field", nil, "Extra member field as key=value; JSON values are decoded (repeatable).")
}

func (f *memberFlags) input() (model.MemberInput, error) {
	extra, err := parseFields(f.fields)
	if err != nil {
		return model.MemberInput{}, err
	}
	return model.MemberInput{
		Status:    model.MemberStatus(f.status),
		FirstName: f.firstName,
		LastName:  f.lastName,
		Extra:     extra,
	}, nil
}

func (a *app) addCmd() *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Add a member to the list (status defaults to subscribed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input()
			if err != nil {
				return err
			}
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			status, found, err := svc.AddMember(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.print(memberResult{Email: args[0], Found: found, Status: status})
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *app) updateCmd() *cobra.Command {
	var flags memberFlags

	cmd := &cobra.Command{
		Use:   "update <email>",
		Short: "Update an existing member; omitted values are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.input()
			if err != nil {
				return err
			}
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			member, found, err := svc.UpdateMember(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return a.print(newMemberResult(args[0], member, found))
		},
	}

	flags.register(cmd)
	return cmd
}

func (a *app) unsubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <email>",
		Short: "Unsubscribe a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			member, found, err := svc.UnsubscribeMember(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(newMemberResult(args[0], member, found))
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "delete <email>",
		Short: "Archive a member (status cleaned); --hard removes it first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.membershipService(cmd.Context())
			if err != nil {
				return err
			}
			archived, err := svc.DeleteMember(cmd.Context(), args[0], hard)
			if err != nil {
				return err
			}
			return a.print(deleteResult{Email: args[0], Hard: hard, Archived: archived})
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "Permanently remove the member before archiving.")
	return cmd
}

func newMemberResult(email string, member *model.Member, found bool) memberResult {
	result := memberResult{Email: email, Found: found, Member: member}
	if member != nil {
		result.Status = member.Status
	}
	return result
}

// parseFields turns key=value pairs into extra member fields. Values that
// parse as JSON keep their JSON type, anything else is a string.
func parseFields(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, errors.NewValidation(fmt.Sprintf("invalid field %q, expected key=value", pair))
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		fields[key] = value
	}
	return fields, nil
}
