package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/edutrip-api/internal/dto"
	"github.com/noah-isme/edutrip-api/internal/middleware"
)

func newRecalcCommand(env *environment) *cobra.Command {
	var (
		userID    string
		programID uint
	)

	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Recalculate eligibility for a user",
		Long:  "Recalculate and store eligibility for one program, or for every active program when --program is omitted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := env.logger()
			svc, cleanup, err := env.eligibilityService(logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := middleware.ContextWithCorrelation(cmd.Context(), "cli-recalc")

			if programID != 0 {
				result, err := svc.CalculateProgramEligibility(ctx, userID, programID)
				if err != nil {
					return fmt.Errorf("recalculate program %d: %w", programID, err)
				}
				return writeResults(env.out, []dto.ProgramEligibility{{
					Program:     dto.ProgramSummary{ID: programID},
					Eligibility: result,
				}})
			}

			items, err := svc.CalculateAllProgramsEligibility(ctx, userID)
			if err != nil {
				return fmt.Errorf("recalculate programs: %w", err)
			}
			return writeResults(env.out, items)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().UintVar(&programID, "program", 0, "program id, all active programs when omitted")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func writeResults(out io.Writer, items []dto.ProgramEligibility) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROGRAM\tNAME\tSCORE\tELIGIBLE\tMISSING")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%t\t%s\n",
			item.Program.ID,
			dashIfEmpty(item.Program.Name),
			item.Eligibility.Score,
			item.Eligibility.IsEligible,
			dashIfEmpty(strings.Join(item.Eligibility.MissingRequirements, "; ")),
		)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "no active programs with requirements")
	}
	return w.Flush()
}

func dashIfEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
