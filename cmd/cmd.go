// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package cmd defines the hibahadmin command-line interface.
package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/cliparse"
	"github.com/danielhkuo/hibah-admin/db"
)

func bindFlags(cmd *cobra.Command) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		slog.Error("Error binding flags", "command", cmd.Name(), "error", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(proposalsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)

	proposalsCmd.AddCommand(proposalsListCmd)
	proposalsCmd.AddCommand(proposalsApproveCmd)
	proposalsCmd.AddCommand(proposalsRejectCmd)
	proposalsCmd.AddCommand(proposalsPlottingCmd)
	proposalsCmd.AddCommand(proposalsAssignCmd)

	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewSubmitCmd)

	auditCmd.AddCommand(auditListCmd)
	auditCmd.AddCommand(auditExportCmd)

	tokenCmd.AddCommand(tokenMintCmd)

	pf := rootCmd.PersistentFlags()
	pf.String(keyConfig, "", "Path to config file (default .hibahadmin.yaml)")
	pf.String(cliparse.KeyAPIBaseURL, "", "Base URL of the grant API")
	pf.Duration(cliparse.KeyAPITimeout, 15*time.Second, "Timeout for API requests")
	pf.String(cliparse.KeyAuditBackend, string(db.SQLiteBackend), "Audit backend: sqlite or postgres or mysql or none")
	pf.String(cliparse.KeyAuditDSN, "hibah-audit.db", "Audit database path or connection string")
	pf.String(cliparse.KeyLogLevel, "info", "Log level: debug, info, warn or error")
	pf.String(cliparse.KeyLogFormat, "text", "Log format: text or json")
	pf.String(keyToken, "", "Session token to act with (default: mint one from the session secret)")
	pf.BoolP(keyYes, "y", false, "Confirm actions without prompting")
	pf.Bool(keyColor, true, "Colour status labels in output")
	if err := viper.BindPFlags(pf); err != nil {
		slog.Error("Error binding root flags", "error", err)
		os.Exit(1)
	}

	serveCmd.Flags().IntP(cliparse.KeyPort, "p", 3318, "Port to listen on")
	bindFlags(serveCmd)

	proposalsListCmd.Flags().String("stage", "screening", "Selection stage: screening or plotting")
	proposalsListCmd.Flags().String("search", "", "Filter by title, principal investigator or scheme")
	bindFlags(proposalsListCmd)

	proposalsRejectCmd.Flags().String("reason", "", "Reason shown to the applicant (required)")
	bindFlags(proposalsRejectCmd)

	proposalsAssignCmd.Flags().String("reviewer1", "", "Reviewer 1 id")
	proposalsAssignCmd.Flags().String("reviewer2", "", "Reviewer 2 id")
	bindFlags(proposalsAssignCmd)

	reviewCmd.PersistentFlags().String("reviewer", "", "Reviewer id to act as")
	if err := viper.BindPFlags(reviewCmd.PersistentFlags()); err != nil {
		slog.Error("Error binding review flags", "error", err)
		os.Exit(1)
	}
	reviewSubmitCmd.Flags().StringSlice("score", nil, "Criterion score as criterion=value (repeatable)")
	reviewSubmitCmd.Flags().String("recommendation", "", "accepted, minor_revision, major_revision or rejected")
	reviewSubmitCmd.Flags().String("comments", "", "Reviewer comments (required)")
	bindFlags(reviewSubmitCmd)

	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 rolls everything back)")
	bindFlags(migrateCmd)

	auditCmd.PersistentFlags().String("subject", "", "Only entries about this subject, e.g. proposal/P-1")
	auditCmd.PersistentFlags().String("action", "", "Only entries with this action")
	auditCmd.PersistentFlags().String("since", "", "Only entries at or after this RFC 3339 time")
	auditCmd.PersistentFlags().Int("limit", db.DefaultListLimit, "Maximum number of entries")
	if err := viper.BindPFlags(auditCmd.PersistentFlags()); err != nil {
		slog.Error("Error binding audit flags", "error", err)
		os.Exit(1)
	}
	auditExportCmd.Flags().String("format", "", "Export format: csv, json or parquet")
	auditExportCmd.Flags().String("output-file", "", "File to write (default stdout)")
	bindFlags(auditExportCmd)

	tokenMintCmd.Flags().String("role", "admin", "Role: admin, reviewer or researcher")
	tokenMintCmd.Flags().String("name", "", "Display name")
	tokenMintCmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	bindFlags(tokenMintCmd)
}
