// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/auth"
	"github.com/danielhkuo/hibah-admin/cliparse"
	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/models"
)

// Set by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI-only keys
const (
	keyConfig = "config"
	keyYes    = "yes"
	keyToken  = "token"
	keyColor  = "color"
)

// cliSessionTTL bounds sessions minted for a single command.
const cliSessionTTL = 15 * time.Minute

var rootCtx = context.Background()

// cfg holds the validated configuration once loadConfig has run.
var cfg cliparse.Config

var rootCmd = &cobra.Command{
	Use:           "hibahadmin",
	Short:         "Back-office gateway and tools for research grant administration.",
	Long:          `hibahadmin serves the grant back-office API and runs selection, review and audit tasks from the terminal.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig loads .env and registers the config file, env and defaults.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	if configFile := viper.GetString(keyConfig); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".hibahadmin")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}
	cliparse.SetDefaults(viper.GetViper())
}

func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// loadConfig reads and validates the full configuration and installs the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	if err := readConfigFile(); err != nil {
		return err
	}
	c, err := cliparse.FromViper(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = c
	slog.SetDefault(cfg.Logger(os.Stderr))
	color.NoColor = color.NoColor || !viper.GetBool(keyColor)
	return nil
}

// loadAuditConfig reads only what the audit store needs, so migrations and
// exports run without API credentials.
func loadAuditConfig(_ *cobra.Command, _ []string) error {
	if err := readConfigFile(); err != nil {
		return err
	}
	cfg.AuditBackend = viper.GetString(cliparse.KeyAuditBackend)
	cfg.AuditDSN = viper.GetString(cliparse.KeyAuditDSN)
	cfg.LogLevel = viper.GetString(cliparse.KeyLogLevel)
	cfg.LogFormat = viper.GetString(cliparse.KeyLogFormat)
	slog.SetDefault(cfg.Logger(os.Stderr))
	color.NoColor = color.NoColor || !viper.GetBool(keyColor)
	return nil
}

func auditBackend() (db.Backend, error) {
	return db.ParseBackend(cfg.AuditBackend)
}

// openAudit opens the configured audit store.
func openAudit(ctx context.Context) (*db.Store, error) {
	backend, err := auditBackend()
	if err != nil {
		return nil, err
	}
	return db.Open(ctx, backend, cfg.AuditDSN)
}

// sessionContext attaches a session to ctx. A --token is verified and
// forwarded as is; otherwise a short-lived session for subject and role is
// minted from the session secret.
func sessionContext(ctx context.Context, subject, role string) (context.Context, error) {
	token := viper.GetString(keyToken)
	if token == "" {
		s := auth.Session{Subject: subject, Name: "hibahadmin CLI", Role: role}
		if role == models.RoleReviewer {
			s.ReviewerID = subject
		}
		var err error
		token, err = auth.IssueSession(s, cfg.SessionSecret, cliSessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to mint CLI session: %w", err)
		}
	}

	s, err := auth.ParseSession(token, cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid --token: %w", err)
	}
	return auth.WithSession(ctx, s), nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
