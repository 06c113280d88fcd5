package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "omnitronctl",
	Short: "Omnitron gateway control",
	Long: `omnitronctl manages and runs the Omnitron gateway.

The gateway forwards HTTP requests to registered upstream targets after
checking a ticket and the caller's roles. Its own API lives under
/@omnitron/api.`,
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("OMNITRON_LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
