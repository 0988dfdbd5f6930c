package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/punchline/attendance/internal/holiday"
	"github.com/punchline/attendance/internal/model"
)

// seedHolidaysCmd generates a year's statutory holiday calendar for a German
// Bundesland and upserts it, sparing an operator from typing each date in by
// hand every January.
func seedHolidaysCmd() *cobra.Command {
	var year int
	var state string
	cmd := &cobra.Command{
		Use:   "seed_holidays",
		Short: "Generate and upsert a year's statutory holiday calendar for a Bundesland",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			st, err := holiday.ParseState(state)
			if err != nil {
				return err
			}
			defs, err := holiday.Generate(year, st)
			if err != nil {
				return err
			}

			rows := make([]model.Holiday, len(defs))
			for i, d := range defs {
				rows[i] = model.Holiday{
					HolidayDate: d.Date,
					Name:        d.Name,
					Type:        model.HolidayTypePaid,
				}
			}

			if err := a.holidays.UpsertMany(context.Background(), rows); err != nil {
				return err
			}
			log.Info().Int("year", year).Str("state", string(st)).Int("count", len(rows)).Msg("seed_holidays complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "calendar year to generate")
	cmd.Flags().StringVar(&state, "state", "BY", "Bundesland code (e.g. BY, BW, NW)")
	return cmd
}
