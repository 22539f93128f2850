// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/danielhkuo/hibah-admin/models"
)

// Format is an export file format.
type Format string

const (
	CSV     Format = "csv"
	JSON    Format = "json"
	Parquet Format = "parquet"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case CSV, JSON, Parquet:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv, json or parquet)", s)
	}
}

// Row is one audit entry as exported. The client hash is included; exports
// are for operators, not for API consumers.
type Row struct {
	ID           string    `parquet:"id,snappy" json:"id"`
	Action       string    `parquet:"action,dict,snappy" json:"action"`
	Subject      string    `parquet:"subject,snappy" json:"subject"`
	StatusBefore *string   `parquet:"status_before,optional,snappy" json:"status_before,omitempty"`
	StatusAfter  *string   `parquet:"status_after,optional,snappy" json:"status_after,omitempty"`
	Actor        string    `parquet:"actor,snappy" json:"actor"`
	IPHash       *string   `parquet:"ip_hash,optional,snappy" json:"ip_hash,omitempty"`
	Detail       *string   `parquet:"detail,optional,snappy" json:"detail,omitempty"`
	CreatedAt    time.Time `parquet:"created_at,timestamp(millisecond)" json:"created_at"`
}

var csvHeader = []string{"id", "action", "subject", "status_before", "status_after", "actor", "ip_hash", "detail", "created_at"}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Rows converts audit entries to export rows.
func Rows(entries []models.AuditEntry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			ID:           e.ID,
			Action:       e.Action,
			Subject:      e.Subject,
			StatusBefore: optional(e.StatusBefore),
			StatusAfter:  optional(e.StatusAfter),
			Actor:        e.Actor,
			IPHash:       optional(e.IPHash),
			Detail:       optional(e.Detail),
			CreatedAt:    e.CreatedAt.UTC(),
		})
	}
	return rows
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []models.AuditEntry) error {
	rows := Rows(entries)
	switch format {
	case CSV:
		return writeCSV(w, rows)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("failed to write json: %w", err)
		}
		return nil
	case Parquet:
		return writeParquet(w, rows)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.ID, r.Action, r.Subject, deref(r.StatusBefore), deref(r.StatusAfter),
			r.Actor, deref(r.IPHash), deref(r.Detail), r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeParquet(w io.Writer, rows []Row) error {
	writer := parquet.NewGenericWriter[Row](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return nil
}
