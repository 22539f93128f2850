// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/db"
	"github.com/danielhkuo/hibah-admin/export"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and export the audit trail",
	Long: `Inspect and export the audit trail of executed mutations.

Examples:
  hibahadmin audit list --subject proposal/P-2026-001
  hibahadmin audit export --format parquet --output-file audit.parquet`,
	PersistentPreRunE: loadAuditConfig,
}

func auditFilter() (db.Filter, error) {
	f := db.Filter{
		Subject: viper.GetString("subject"),
		Action:  viper.GetString("action"),
		Limit:   viper.GetInt("limit"),
	}
	if s := viper.GetString("since"); s != "" {
		since, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return db.Filter{}, fmt.Errorf("invalid --since %q: expected RFC 3339", s)
		}
		f.Since = since
	}
	return f, nil
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit entries",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		f, err := auditFilter()
		if err != nil {
			return err
		}
		store, err := openAudit(rootCtx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List(rootCtx, f)
		if err != nil {
			return err
		}
		return writeAudit(os.Stdout, entries, time.Now())
	},
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit entries as CSV, JSON or Parquet",
	Long: `Export audit entries for analysis in spreadsheets, pandas or DuckDB.

The format defaults to the extension of --output-file, then to CSV.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		outFile := viper.GetString("output-file")
		name := viper.GetString("format")
		if name == "" {
			name = filepath.Ext(outFile)
		}
		if name == "" {
			name = string(export.CSV)
		}
		format, err := export.ParseFormat(name)
		if err != nil {
			return err
		}
		if format == export.Parquet && outFile == "" {
			return fmt.Errorf("parquet output needs --output-file")
		}

		f, err := auditFilter()
		if err != nil {
			return err
		}
		store, err := openAudit(rootCtx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		entries, err := store.List(rootCtx, f)
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if outFile != "" {
			file, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outFile, err)
			}
			defer func() { _ = file.Close() }()
			w = file
		}
		if err := export.Write(w, format, entries); err != nil {
			return err
		}
		if outFile != "" {
			fmt.Fprintf(os.Stderr, "Wrote %d entries to %s\n", len(entries), outFile)
		}
		return nil
	},
}
