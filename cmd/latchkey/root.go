// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/latchkey/latchkey/internal/config"
)

// Global flags available to all subcommands.
var (
	configFile string
	envFile    string
)

// serviceName labels every log line.
const serviceName = "latchkey"

// NewRootCmd creates the root command for the Latchkey CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "latchkey",
		Short: "Latchkey - email and password accounts over HTTP",
		Long: `Latchkey runs account signup, email verification, cookie sessions
and password reset behind a small JSON API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded when present")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewMailerCmd())

	return cmd
}

// loadConfig reads the layered configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	//nolint:wrapcheck // config errors carry their own codes
	return config.Load(config.Options{
		Path:   configFile,
		DotEnv: envFile,
		Flags:  cmd.Flags(),
	})
}
