package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func correctAWOACmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "correct_a_wo_a_pattern",
		Short: "Flip the middle day of (A, WO, A) triples to A",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			to := time.Now()
			from := to.AddDate(0, 0, -days)
			result, err := a.corrector.Correct(context.Background(), from, to)
			if err != nil {
				return err
			}
			log.Info().Int("corrected", result.Corrected).Msg("correct_a_wo_a_pattern complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 400, "trailing window in days")
	return cmd
}

func revertAWOACmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert_awo_corrections",
		Short: "Revert A-WO-A corrections whose neighbours are no longer both absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			result, err := a.reverter.Revert(context.Background())
			if err != nil {
				return err
			}
			log.Info().Int("reverted", result.Reverted).Msg("revert_awo_corrections complete")
			return nil
		},
	}
}
