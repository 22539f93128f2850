// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/hibah-admin/apiclient"
	"github.com/danielhkuo/hibah-admin/confirm"
	"github.com/danielhkuo/hibah-admin/models"
	"github.com/danielhkuo/hibah-admin/selection"
	"github.com/danielhkuo/hibah-admin/workflow"
)

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "Screen proposals and plot reviewers",
	Long: `Run the admin selection workflow against the grant API.

Subcommands:
  list     - List proposals of a selection stage
  approve  - Approve a submitted proposal (asks for confirmation)
  reject   - Reject a submitted proposal with a reason
  plotting - Show the reviewer plotting and candidates
  assign   - Assign one or two reviewers

Examples:
  hibahadmin proposals list --stage plotting
  hibahadmin proposals approve P-2026-001 --yes
  hibahadmin proposals assign P-2026-001 --reviewer1 R1 --reviewer2 R2`,
	PersistentPreRunE: loadConfig,
}

// selectionSetup builds the selection service with an admin session.
func selectionSetup(ctx context.Context) (context.Context, *selection.Service, func(), error) {
	ctx, err := sessionContext(ctx, "cli", models.RoleAdmin)
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
	return ctx, selection.NewService(api, store), func() { _ = store.Close() }, nil
}

// done reports a declined confirmation as a plain message.
func done(err error) error {
	if errors.Is(err, confirm.ErrDeclined) {
		fmt.Fprintln(os.Stdout, "cancelled")
		return nil
	}
	return err
}

var proposalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List proposals of a selection stage",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		stage, err := workflow.ParseStage(viper.GetString("stage"))
		if err != nil {
			return err
		}
		ctx, svc, closeFn, err := selectionSetup(rootCtx)
		if err != nil {
			return err
		}
		defer closeFn()

		proposals, err := svc.ListByStage(ctx, stage, viper.GetString("search"))
		if err != nil {
			return err
		}
		return writeProposals(os.Stdout, proposals, time.Now())
	},
}

var proposalsApproveCmd = &cobra.Command{
	Use:   "approve <proposal-id>",
	Short: "Approve a submitted proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, svc, closeFn, err := selectionSetup(rootCtx)
		if err != nil {
			return err
		}
		defer closeFn()

		p, err := svc.ApproveAdmin(ctx, confirm.NewPrompt(viper.GetBool(keyYes)), args[0])
		if err != nil {
			return done(err)
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", p.ID, statusLabel(p.Status))
		return nil
	},
}

var proposalsRejectCmd = &cobra.Command{
	Use:   "reject <proposal-id>",
	Short: "Reject a submitted proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, svc, closeFn, err := selectionSetup(rootCtx)
		if err != nil {
			return err
		}
		defer closeFn()

		p, err := svc.RejectAdmin(ctx, args[0], viper.GetString("reason"))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %s\n", p.ID, statusLabel(p.Status))
		return nil
	},
}

var proposalsPlottingCmd = &cobra.Command{
	Use:   "plotting <proposal-id>",
	Short: "Show the reviewer plotting of a proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, svc, closeFn, err := selectionSetup(rootCtx)
		if err != nil {
			return err
		}
		defer closeFn()

		draft, err := svc.OpenPlottingFor(ctx, args[0])
		if err != nil {
			return err
		}
		return writePlotting(os.Stdout, draft)
	},
}

func optionalFlag(key string) *string {
	if v := viper.GetString(key); v != "" {
		return &v
	}
	return nil
}

var proposalsAssignCmd = &cobra.Command{
	Use:   "assign <proposal-id>",
	Short: "Assign reviewers to an approved proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, svc, closeFn, err := selectionSetup(rootCtx)
		if err != nil {
			return err
		}
		defer closeFn()

		p, err := svc.AssignReviewers(ctx, args[0], optionalFlag("reviewer1"), optionalFlag("reviewer2"))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s: %s, reviewer %v\n", p.ID, statusLabel(p.Status), p.ReviewerIDs())
		return nil
	},
}
