/*
main.go - Command-line front-end for the timeclock engine

PURPOSE:
  A cobra CLI over the same worklog store the HTTP server uses:
  clock in/out, list and report records, manage the wage and
  pay-window settings. Data lives in the JSON snapshot under the
  data directory (default ./data, override with --data).

COMMANDS:
  in       Clock in
  out      Clock out and create a work record
  status   Show the running clock
  list     List records, most-recent-first
  report   Month report with payable and salary totals
  wage     Show or set the hourly wage, apply it to stored records
  window   Show or set the global pay window

SEE ALSO:
  - commands.go: Command implementations
  - cmd/server: HTTP front-end sharing the same store
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "timeclock",
	Short: "Track work sessions and compute salary from an hourly wage",
	Long: `timeclock records clock-in/clock-out sessions, trims them to the
configured paid-hours window, rounds payable time down to the nearest
half hour, and computes salary from the hourly wage. All data is stored
as JSON under the data directory.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./data", "Data directory")
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(wageCmd)
	rootCmd.AddCommand(windowCmd)
}
