// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/scoring"
	"github.com/danielhkuo/hibah-admin/workflow"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Score proposals as a reviewer",
	Long: `Open and submit rubric reviews against the grant API.

Scores are given as criterion=value pairs and clamped to 0-100. A submitted
review cannot be changed.

Examples:
  hibahadmin review show P-2026-001 --reviewer R1
  hibahadmin review submit P-2026-001 --reviewer R1 \
    --score originalitas=80 --score metodologi=75 \
    --recommendation accepted --comments "Layak didanai"`,
	PersistentPreRunE: loadConfig,
}

// parseScores reads criterion=value pairs.
func parseScores(pairs []string) (map[string]float64, error) {
	scores := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		id, raw, ok := strings.Cut(p, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid score %q, expected criterion=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", p, err)
		}
		scores[id] = v
	}
	return scores, nil
}

func openReview(ctx context.Context, proposalID string) (context.Context, *scoring.Session, func(), error) {
	reviewer := viper.GetString("reviewer")
	if reviewer == "" {
		return nil, nil, nil, fmt.Errorf("--reviewer is required")
	}
	ctx, err := sessionContext(ctx, reviewer, models.RoleReviewer)
	if err != nil {
		return nil, nil, nil, err
	}

	api, err := apiclient.New(cfg.APIBaseURL, apiclient.Options{Timeout: cfg.APITimeout, CacheTTL: -1})
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := openAudit(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() { _ = store.Close() }

	svc, err := scoring.NewService(api, cfg.Rubric, store)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	sess, err := svc.OpenReview(ctx, proposalID, reviewer)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	return ctx, sess, closeFn, nil
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <proposal-id>",
	Short: "Show the rubric and current scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		_, sess, closeFn, err := openReview(rootCtx, args[0])
		if err != nil {
			return err
		}
		defer closeFn()
		return writeReview(os.Stdout, sess.View())
	},
}

var reviewSubmitCmd = &cobra.Command{
	Use:   "submit <proposal-id>",
	Short: "Score and submit a review",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		scores, err := parseScores(viper.GetStringSlice("score"))
		if err != nil {
			return err
		}

		ctx, sess, closeFn, err := openReview(rootCtx, args[0])
		if err != nil {
			return err
		}
		defer closeFn()

		if sess.ReadOnly() {
			return workflow.ErrReadOnly
		}
		if err := sess.SetScores(scores); err != nil {
			return err
		}
		if err := writeReview(os.Stdout, sess.View()); err != nil {
			return err
		}

		c := confirm.NewPrompt(viper.GetBool(keyYes))
		if _, err := sess.Submit(ctx, c, viper.GetString("recommendation"), viper.GetString("comments")); err != nil {
			return done(err)
		}
		fmt.Fprintln(os.Stdout, "Penilaian terkirim.")
		return nil
	},
}
