package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kickinn/kickinn-api/internal/config"
	"github.com/kickinn/kickinn-api/internal/observability"
	"github.com/kickinn/kickinn-api/internal/types"
	"github.com/spf13/cobra"
)

// Output formats for the score command.
const (
	formatJSON = "json"
	formatText = "text"
)

func newScoreCmd() *cobra.Command {
	var (
		userID        string
		opportunityID string
		skills        string
		timeline      float64
		format        string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute (or fetch) one fit score and print it as JSON",
		Long: `Runs the same scoring flow as POST /fit-scores for the given executor and opportunity,
storing the result. A second run for the same pair returns the stored score.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatText {
				return fmt.Errorf("invalid --format %q: must be %s or %s", format, formatJSON, formatText)
			}
			executorID, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user %q: %w", userID, err)
			}

			req := &types.FitScoreRequest{
				OpportunityID:  opportunityID,
				RequiredSkills: types.ParseSkills(skills),
			}
			if cmd.Flags().Changed("timeline") {
				req.TimelineWeeks = &timeline
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.service.Score(cmd.Context(), executorID, req)
			if err != nil {
				return err
			}

			if format == formatText {
				printer := observability.NewPrinter(cmd.OutOrStdout())
				printer.PrintFitScore(res.Score, res.Cached)
				if profile, err := a.service.Profile(cmd.Context(), executorID); err == nil {
					printer.PrintProfile(profile)
				}
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(types.FitScoreResponse{Success: true, FitScore: res.Score, Cached: res.Cached})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Executor user ID (UUID)")
	cmd.Flags().StringVarP(&opportunityID, "opportunity", "o", "", "Opportunity ID")
	cmd.Flags().StringVarP(&skills, "skills", "s", "", "Comma-separated required skills")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format: json or text")
	cmd.Flags().Float64Var(&timeline, "timeline", 0, "Timeline in weeks (optional)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("opportunity")
	_ = cmd.MarkFlagRequired("skills")
	return cmd
}
