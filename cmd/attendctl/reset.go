package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func resetSequencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset_sequences",
		Short: "Reset identity sequences to max(id) for the append-only log tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			if err := a.sequences.ResetAll(context.Background()); err != nil {
				return err
			}
			log.Info().Msg("reset_sequences complete")
			return nil
		},
	}
}

// resetAttendanceCmd is destructive: it wipes every derived table the
// attendance pipeline writes for the window, then rebuilds it from scratch
// via the same sequence the scheduler runs on first boot.
func resetAttendanceCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "reset_attendance",
		Short: "Clear attendance aggregates, mandays, and A-WO-A corrections for a trailing window, then rebuild from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			to := time.Now()
			from := to.AddDate(0, 0, -days)

			if err := a.attendances.DeleteForDateRange(ctx, from, to); err != nil {
				return fmt.Errorf("delete attendance range: %w", err)
			}
			if err := a.punches.RemoveProcessedCursorForRange(ctx, from, to); err != nil {
				return fmt.Errorf("clear processed cursor range: %w", err)
			}
			if err := a.mandaysRepo.DeleteForDateRange(ctx, from, to); err != nil {
				return fmt.Errorf("delete mandays range: %w", err)
			}
			if err := a.mandaysRepo.RewindCursor(ctx, from); err != nil {
				return fmt.Errorf("rewind mandays cursor: %w", err)
			}
			if err := a.corrections.DeleteForDateRange(ctx, from, to); err != nil {
				return fmt.Errorf("delete a-wo-a corrections range: %w", err)
			}

			// The wiped window now has no aggregates at all, not even
			// absentee rows, so the rebuild must start from the sweeper
			// over the full 400-day horizon rather than just [from,to].
			if err := a.runner().Bootstrap(ctx, false); err != nil {
				return fmt.Errorf("rebuild after reset: %w", err)
			}

			log.Info().Time("from", from).Time("to", to).Msg("reset_attendance complete")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 400, "trailing window in days")
	return cmd
}

// resetMandaysCmd soft-resets the trailing window when enough history
// exists for a rewind to be meaningful, and otherwise falls back to
// wiping and replaying the whole table — mirroring reset_attendance's
// all-or-trailing-window choice for a table with too little history to
// bound a partial reset against.
func resetMandaysCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "reset_mandays",
		Short: "Soft-reset a trailing window of mandays records, or fully reset if too little history exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			ctx := context.Background()
			to := time.Now()

			earliest, ok, err := a.mandaysRepo.EarliestRecordDate(ctx)
			if err != nil {
				return fmt.Errorf("load earliest mandays record: %w", err)
			}

			fullReset := !ok || to.Sub(earliest) < time.Duration(days)*24*time.Hour
			if fullReset {
				if err := a.mandaysRepo.DeleteForDateRange(ctx, time.Time{}, to); err != nil {
					return fmt.Errorf("delete all mandays records: %w", err)
				}
				if err := a.mandaysRepo.AdvanceCursor(ctx, 0); err != nil {
					return fmt.Errorf("reset mandays cursor: %w", err)
				}
				log.Info().Msg("reset_mandays complete (full reset: less than the trailing window of history existed)")
				return nil
			}

			from := to.AddDate(0, 0, -days)
			if err := a.mandaysRepo.DeleteForDateRange(ctx, from, to); err != nil {
				return fmt.Errorf("delete mandays range: %w", err)
			}
			if err := a.mandaysRepo.RewindCursor(ctx, from); err != nil {
				return fmt.Errorf("rewind mandays cursor: %w", err)
			}
			log.Info().Time("from", from).Time("to", to).Msg("reset_mandays complete (trailing window)")
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 100, "trailing window in days")
	return cmd
}
