package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "attendctl",
		Short: "Administrative surface over the attendance derivation engine",
	}

	root.AddCommand(
		syncLogsCmd(),
		syncAllLogsCmd(),
		absenteesCmd(),
		taskCmd(),
		mandaysCmd(),
		correctAWOACmd(),
		revertAWOACmd(),
		resetSequencesCmd(),
		resetAttendanceCmd(),
		resetMandaysCmd(),
		seedHolidaysCmd(),
		scheduleCmd(),
		serveCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
