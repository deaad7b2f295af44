package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "punchcard",
	Short: "Punchcard — team time tracking and project ticketing",
	Long:  "Punchcard is a time-tracking server for teams: clock in and out of work sessions, run per-ticket timers that accrue work logs, and report on where the hours went across projects.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/punchcard.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
