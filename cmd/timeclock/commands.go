package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/timeclock/config"
	"github.com/warp/timeclock/store/file"
	"github.com/warp/timeclock/worklog"
)

// openStore loads settings and the record snapshot from the data
// directory.
func openStore() (*worklog.RecordStore, config.Settings, string, error) {
	settingsPath := filepath.Join(dataDir, "settings.json")
	settings, err := config.Load(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	store := worklog.NewRecordStore(file.New(filepath.Join(dataDir, "records.json")))
	if err := store.Load(context.Background()); err != nil {
		return nil, settings, settingsPath, err
	}
	return store, settings, settingsPath, nil
}

// requireWage nags on first run: salary math with a zero wage is
// almost never what the user wants.
func requireWage(settings config.Settings) {
	if !settings.WageSet() {
		fmt.Fprintln(os.Stderr, "Warning: no hourly wage configured; run `timeclock wage set <amount>`")
	}
}

func warnPersist(err error) error {
	if err == nil {
		return nil
	}
	if worklog.IsPersistWarning(err) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	return err
}

// =============================================================================
// CLOCK COMMANDS
// =============================================================================

var inDescription string

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in",
	Args:  cobra.NoArgs,
	RunE:  runIn,
}

func init() {
	inCmd.Flags().StringVar(&inDescription, "description", "", "Note for the session")
}

func runIn(cmd *cobra.Command, args []string) error {
	store, settings, _, err := openStore()
	if err != nil {
		return err
	}
	requireWage(settings)

	now := time.Now()
	if err := warnPersist(store.ClockIn(context.Background(), now, inDescription)); err != nil {
		return err
	}
	fmt.Printf("Clocked in at %s\n", now.Format("15:04:05"))
	return nil
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out and record the session",
	Args:  cobra.NoArgs,
	RunE:  runOut,
}

func runOut(cmd *cobra.Command, args []string) error {
	store, settings, _, err := openStore()
	if err != nil {
		return err
	}
	requireWage(settings)

	rec, err := store.ClockOut(context.Background(), time.Now(), settings.WagePerHour, settings.Window)
	if err = warnPersist(err); err != nil {
		return err
	}
	fmt.Printf("Clocked out: %s payable, %s half-hours, salary %s\n",
		rec.Display, rec.HalfHours.String(), rec.Salary.String())
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running clock",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, _, _, err := openStore()
	if err != nil {
		return err
	}
	open := store.OpenSessionInfo()
	if open == nil {
		fmt.Println("Not clocked in")
		return nil
	}
	elapsed := int(time.Since(open.Start) / time.Second)
	fmt.Printf("Clocked in since %s (%s elapsed)\n",
		open.Start.Format("15:04:05"), worklog.FormatDuration(elapsed))
	if open.Description != "" {
		fmt.Printf("Note: %s\n", open.Description)
	}
	return nil
}

// =============================================================================
// LISTING AND REPORTS
// =============================================================================

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	store, _, _, err := openStore()
	if err != nil {
		return err
	}
	printRecords(store.List())
	return nil
}

var reportCmd = &cobra.Command{
	Use:   "report <year-month>",
	Short: "Month report, e.g. timeclock report 2026-08",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	year, month, err := parseYearMonth(args[0])
	if err != nil {
		return err
	}

	store, _, _, err := openStore()
	if err != nil {
		return err
	}

	printRecords(store.ListMonth(year, month))
	sum := store.SummarizeMonth(year, month)
	fmt.Printf("\n%d records, %s payable, total salary %s\n",
		sum.Records, worklog.FormatDuration(sum.TotalSeconds), sum.TotalSalary.String())
	return nil
}

func printRecords(recs []worklog.WorkRecord) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tSTART\tEND\tPAYABLE\tSALARY\tNOTE")
	for i, rec := range recs {
		note := rec.Description
		if rec.ModifiedHourly {
			note = strings.TrimSpace(note + " [wage pinned]")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i,
			rec.Date.Format("2006-01-02"),
			rec.Start.Format("15:04"),
			rec.End.Format("15:04"),
			rec.Display,
			rec.Salary.String(),
			note)
	}
	w.Flush()
}

func parseYearMonth(s string) (int, time.Month, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want YEAR-MONTH, got %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad year %q", parts[0])
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("bad month %q", parts[1])
	}
	return year, time.Month(month), nil
}

// =============================================================================
// WAGE AND WINDOW SETTINGS
// =============================================================================

var (
	wageApplyScope    string
	wageApplyModified bool
)

var wageCmd = &cobra.Command{
	Use:   "wage [set <amount>|apply]",
	Short: "Show or set the hourly wage, or apply it to stored records",
	Args:  cobra.ArbitraryArgs,
	RunE:  runWage,
}

func init() {
	wageCmd.Flags().StringVar(&wageApplyScope, "scope", "all", `Apply scope: "all" or a month like 2026-08`)
	wageCmd.Flags().BoolVar(&wageApplyModified, "include-modified", false, "Also overwrite manually pinned wages")
}

func runWage(cmd *cobra.Command, args []string) error {
	store, settings, settingsPath, err := openStore()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Printf("Hourly wage: %s\n", settings.WagePerHour.String())
		return nil
	}

	switch args[0] {
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: timeclock wage set <amount>")
		}
		wage, err := decimal.NewFromString(args[1])
		if err != nil || wage.IsNegative() {
			return fmt.Errorf("bad wage %q", args[1])
		}
		settings.WagePerHour = wage
		if err := config.Save(settingsPath, settings); err != nil {
			return err
		}
		fmt.Printf("Hourly wage set to %s\n", wage.String())
		return nil

	case "apply":
		var changed int
		var applyErr error
		if wageApplyScope == "all" {
			changed, applyErr = store.ApplyToAll(context.Background(),
				settings.WagePerHour, wageApplyModified, settings.Window)
		} else {
			year, month, err := parseYearMonth(wageApplyScope)
			if err != nil {
				return err
			}
			changed, applyErr = store.ApplyToMonth(context.Background(), year, month,
				settings.WagePerHour, wageApplyModified, settings.Window)
		}
		if err := warnPersist(applyErr); err != nil {
			return err
		}
		fmt.Printf("Recomputed %d records\n", changed)
		return nil

	default:
		return fmt.Errorf("unknown wage subcommand %q", args[0])
	}
}

var (
	windowEnable  bool
	windowDisable bool
	windowRange   string
)

var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Show or set the global pay window",
	Args:  cobra.NoArgs,
	RunE:  runWindow,
}

func init() {
	windowCmd.Flags().BoolVar(&windowEnable, "enable", false, "Enable the pay window")
	windowCmd.Flags().BoolVar(&windowDisable, "disable", false, "Disable the pay window")
	windowCmd.Flags().StringVar(&windowRange, "range", "", `Window as HH:MM-HH:MM, e.g. 09:00-18:00 or 22:00-06:00`)
}

func runWindow(cmd *cobra.Command, args []string) error {
	_, settings, settingsPath, err := openStore()
	if err != nil {
		return err
	}

	changedAnything := windowEnable || windowDisable || windowRange != ""
	if !changedAnything {
		state := "disabled"
		if settings.Window.Enabled {
			state = "enabled"
		}
		fmt.Printf("Pay window %s: %s-%s\n", state,
			minutesToHHMM(settings.Window.StartMin), minutesToHHMM(settings.Window.EndMin))
		return nil
	}

	if windowEnable && windowDisable {
		return fmt.Errorf("--enable and --disable are mutually exclusive")
	}
	if windowEnable {
		settings.Window.Enabled = true
	}
	if windowDisable {
		settings.Window.Enabled = false
	}
	if windowRange != "" {
		startMin, endMin, err := parseWindowRange(windowRange)
		if err != nil {
			return err
		}
		settings.Window.StartMin = startMin
		settings.Window.EndMin = endMin
	}
	if err := config.Save(settingsPath, settings); err != nil {
		return err
	}
	fmt.Println("Pay window updated; run `timeclock wage apply` to recompute stored records")
	return nil
}

func parseWindowRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want HH:MM-HH:MM, got %q", s)
	}
	start, err := parseHHMM(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err := parseHHMM(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseHHMM(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func minutesToHHMM(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
