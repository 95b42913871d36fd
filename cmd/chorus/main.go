package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chorus",
		Short: "A social music catalog split across two stores",
		Long:  "Chorus is a profile service (social graph) and a song service (catalog) that keep each other in sync over HTTP.",
	}

	rootCmd.AddCommand(newServeProfileCmd())
	rootCmd.AddCommand(newServeSongCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(service string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	return logger.With("service", service)
}
