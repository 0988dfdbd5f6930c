package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func absenteesCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "absentees",
		Short: "Materialize Absent/Week-Off/Holiday rows for the trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			result, err := a.sweeper.Run(context.Background(), days)
			if err != nil {
				return err
			}
			log.Info().Int("inserted", result.Inserted).Msg("absentees complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 400, "trailing window in days")
	return cmd
}
