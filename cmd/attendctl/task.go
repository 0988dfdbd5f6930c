package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func taskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "task",
		Short: "Run the attendance processor over unprocessed punches",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			cursor, result, err := a.processor.Run(context.Background(), 0)
			if err != nil {
				return err
			}
			log.Info().
				Int("processed", result.Processed).
				Int("skipped", result.Skipped).
				Int("failed", result.Failed).
				Int64("cursor", cursor).
				Msg("task complete")
			return nil
		},
	}
}
