// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/workflow"
)

func statusColor(s models.ProposalStatus) *color.Color {
	switch s {
	case models.StatusAdminApproved:
		return color.New(color.FgCyan)
	case models.StatusAdminRejected:
		return color.New(color.FgRed)
	case models.StatusUnderReview:
		return color.New(color.FgYellow)
	case models.StatusReviewComplete:
		return color.New(color.FgGreen)
	}
	return color.New(color.Reset)
}

func statusLabel(s models.ProposalStatus) string {
	return statusColor(s).Sprint(s.Label())
}

func gradeLabel(total float64) string {
	text := strconv.FormatFloat(total, 'f', 2, 64)
	if workflow.Grade(total) == workflow.GradeGood {
		return color.GreenString(text)
	}
	return color.YellowString(text)
}

func since(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}
	return humanize.RelTime(*t, now, "lalu", "lagi")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func render(w io.Writer, headers []string, data [][]string, align tw.Align) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = align
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeProposals prints the selection table.
func writeProposals(w io.Writer, proposals []models.Proposal, now time.Time) error {
	data := make([][]string, 0, len(proposals))
	for _, p := range proposals {
		data = append(data, []string{
			p.ID,
			p.Title,
			p.Ketua,
			p.Skema,
			statusLabel(p.Status),
			orDash(strings.Join(p.ReviewerIDs(), ", ")),
			since(p.SubmittedAt, now),
		})
	}
	if err := render(w, []string{"ID", "Judul", "Ketua", "Skema", "Status", "Reviewer", "Diajukan"}, data, tw.AlignLeft); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d proposal\n", len(proposals))
	return err
}

// writePlotting prints the reviewer candidates of a plotting draft.
func writePlotting(w io.Writer, d models.PlottingDraft) error {
	if _, err := fmt.Fprintf(w, "%s (%s)\nReviewer 1: %s\nReviewer 2: %s\n",
		d.Proposal.Title, statusLabel(d.Proposal.Status), orDash(d.Reviewer1ID), orDash(d.Reviewer2ID)); err != nil {
		return err
	}

	data := make([][]string, 0, len(d.Candidates))
	for _, r := range d.Candidates {
		quota := strconv.Itoa(r.Quota)
		if r.Quota <= 0 {
			quota = color.RedString(quota)
		}
		data = append(data, []string{r.ID, r.Name, orDash(r.Expertise), quota})
	}
	return render(w, []string{"ID", "Nama", "Keahlian", "Kuota"}, data, tw.AlignLeft)
}

// writeReview prints a scoring session.
func writeReview(w io.Writer, v models.ReviewView) error {
	data := make([][]string, 0, len(v.Criteria)+1)
	for _, c := range v.Criteria {
		data = append(data, []string{
			c.Label,
			strconv.FormatFloat(c.Weight, 'f', -1, 64) + "%",
			strconv.FormatFloat(c.Score, 'f', -1, 64),
		})
	}
	data = append(data, []string{"Total", "", gradeLabel(v.Total)})
	if err := render(w, []string{"Kriteria", "Bobot", "Skor"}, data, tw.AlignRight); err != nil {
		return err
	}

	state := "draft"
	if v.ReadOnly {
		state = "terkirim"
	}
	if _, err := fmt.Fprintf(w, "Status: %s, penilaian %s\n", statusLabel(v.Status), state); err != nil {
		return err
	}
	if v.Recommendation != "" {
		if _, err := fmt.Fprintf(w, "Rekomendasi: %s\nKomentar: %s\n", workflow.RecommendationLabel(v.Recommendation), v.Comments); err != nil {
			return err
		}
	}
	return nil
}

// writeAudit prints audit entries, newest first.
func writeAudit(w io.Writer, entries []models.AuditEntry, now time.Time) error {
	data := make([][]string, 0, len(entries))
	for _, e := range entries {
		change := ""
		if e.StatusBefore != "" || e.StatusAfter != "" {
			change = e.StatusBefore + " → " + e.StatusAfter
		}
		data = append(data, []string{
			since(&e.CreatedAt, now),
			e.Action,
			e.Subject,
			orDash(change),
			e.Actor,
		})
	}
	return render(w, []string{"Waktu", "Aksi", "Subjek", "Status", "Oleh"}, data, tw.AlignLeft)
}
