package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func mandaysCmd() *cobra.Command {
	var windowDays int
	cmd := &cobra.Command{
		Use:   "mandays",
		Short: "Group trailing punches into per-employee-day duty pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			result, err := a.mandays.Run(context.Background(), windowDays)
			if err != nil {
				return err
			}
			log.Info().Int("records_written", result.RecordsWritten).Int("missed_punches", result.MissedPunches).Msg("mandays complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&windowDays, "window-days", 100, "trailing window in days")
	return cmd
}
