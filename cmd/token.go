// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/models"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage session tokens for local testing",
}

var tokenMintCmd = &cobra.Command{
	Use:   "mint <subject>",
	Short: "Mint a session token signed with the session secret",
	Long: `Mint a session token the gateway accepts, for local testing against a
development API. Production tokens come from the session provider.

Examples:
  hibahadmin token mint admin-1 --role admin
  hibahadmin token mint R1 --role reviewer --ttl 2h`,
	Args:    cobra.ExactArgs(1),
	PreRunE: loadConfig,
	RunE: func(_ *cobra.Command, args []string) error {
		role := viper.GetString("role")
		switch role {
		case models.RoleAdmin, models.RoleReviewer, models.RoleResearcher:
		default:
			return fmt.Errorf("unknown role %q (want admin, reviewer or researcher)", role)
		}

		s := auth.Session{Subject: args[0], Name: viper.GetString("name"), Role: role}
		if role == models.RoleReviewer {
			s.ReviewerID = args[0]
		}
		token, err := auth.IssueSession(s, cfg.SessionSecret, viper.GetDuration("ttl"))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, token)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintf(os.Stdout, "hibahadmin %s (commit %s, built %s)\n", version, commit, date)
	},
}
