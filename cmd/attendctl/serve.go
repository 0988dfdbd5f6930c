package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler: bootstrap once, then tick the pipeline chain forever",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			runner := a.runner()
			if err := runner.Bootstrap(context.Background(), a.cfg.IsLocal()); err != nil {
				return err
			}
			runner.Start()

			scheduler := a.schedulerEngine()
			scheduler.Start()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			log.Info().Msg("shutdown signal received")
			scheduler.Stop()
			runner.Stop()
			return nil
		},
	}
}
