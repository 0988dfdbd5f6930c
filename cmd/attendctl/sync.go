package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func syncLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync_logs",
		Short: "Pull raw punches from the configured external database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			result, err := a.syncer.Run(context.Background())
			if err != nil {
				return err
			}
			log.Info().Int("fetched", result.Fetched).Int("inserted", result.Inserted).Msg("sync_logs complete")
			return nil
		},
	}
}

func syncAllLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync_all_logs",
		Short: "Fold device/manual logs into the unified punch view",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			result, err := a.unifier.Run(context.Background())
			if err != nil {
				return err
			}
			log.Info().Int("device_logs", result.DeviceLogs).Int("manual_logs", result.ManualLogs).Msg("sync_all_logs complete")
			return nil
		},
	}
}
