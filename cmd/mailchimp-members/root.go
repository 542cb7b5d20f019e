// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/linuxfoundation/lfx-v2-mailchimp-member-service/internal/domain/port"
)

const envPrefix = "MAILCHIMP"

type app struct {
	v   *viper.Viper
	out io.Writer

	// transport replaces the one built from configuration
	transport port.RESTTransport
}

func newApp(out io.Writer) *app {
	return &app{v: viper.New(), out: out}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mailchimp-members",
		Short:         "Manage the members of a Mailchimp list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.initConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file path (optional).")
	flags.String("list", "", "Mailchimp list (audience) id.")
	flags.StringP("output", "o", outputJSON, "Output format: json|yaml.")
	flags.Bool("mock", false, "Use an in-memory Mailchimp instead of the API.")
	flags.String("api-key", "", "Mailchimp API key (<key>-<dc>).")
	flags.String("access-token", "", "Mailchimp OAuth2 access token.")
	flags.String("datacenter", "", "Mailchimp datacenter, e.g. us6.")
	flags.String("base-url", "", "Mailchimp API root override.")
	flags.Duration("timeout", 0, "HTTP timeout per request.")

	for _, name := range []string{"config", "list", "output", "mock", "api-key", "access-token", "datacenter", "base-url", "timeout"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	cmd.AddCommand(
		a.pingCmd(),
		a.getCmd(),
		a.statusCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.unsubscribeCmd(),
		a.deleteCmd(),
	)

	return cmd
}

func (a *app) initConfig() error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	cfgFile := strings.TrimSpace(a.v.GetString("config"))
	if cfgFile == "" {
		return nil
	}

	a.v.SetConfigFile(cfgFile)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	return nil
}
