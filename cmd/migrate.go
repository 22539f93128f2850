// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run audit database schema migrations",
	Long: `Migrate the audit database schema.

By default the schema moves to the latest version. Use --target-version to
move to a specific version; 0 rolls every migration back.

Examples:
  hibahadmin migrate
  hibahadmin migrate --audit-backend mysql --audit-dsn "user:pass@tcp(localhost:3306)/hibah"
  hibahadmin migrate --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: loadAuditConfig,
	RunE: func(_ *cobra.Command, _ []string) error {
		backend, err := auditBackend()
		if err != nil {
			return err
		}
		if backend == db.NoneBackend {
			return fmt.Errorf("audit backend is none; nothing to migrate")
		}

		res, err := db.Migrate(rootCtx, backend, cfg.AuditDSN, viper.GetInt("target-version"))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", backend, res)
		return nil
	},
}
