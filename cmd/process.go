// =============================================================================
// Fuel Journal Stats - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command. It analyzes
// every month directory that has not been analyzed yet.
//
// COMMAND USAGE:
//   fuelstats process [months_dir] [workbook] [flags]
//
// The positional arguments override months_dir and workbook from the
// configuration.
//
// FLAGS:
//   --archive-db      : SQLite archive to write (overrides archive_db)
//   --max-concurrency : Day files extracted at once (overrides max_concurrency)
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Open the archive, if any
//   3. Analyze each month (see internal/analyzer)
//   4. Print and write the summary report
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/fuelstats/internal/analyzer"
	"github.com/ginjaninja78/fuelstats/internal/store"
	"github.com/ginjaninja78/fuelstats/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// archiveDB overrides the archive database path.
var archiveDB string

// maxConcurrency overrides the extraction concurrency when positive.
var maxConcurrency int

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [months_dir] [workbook]",
	Short: "Analyze new month directories into the workbook",
	Long: `The process command scans the months directory for sub-directories named
YYYYMM that are not yet marked as analyzed. For each of them it extracts every
day journal, tabulates the day into a workbook column and writes the month
sheet.

Days are extracted concurrently. A day that cannot be read leaves an empty
column and a fatal diagnostic; the rest of the month is still analyzed.

On success:
  - The month sheet is written (an existing sheet of that month is replaced)
  - diagnostics_YYYYMM.yaml is written next to the workbook
  - The month directory is marked with ALREADY_ANALYZED

On error:
  - The month directory is left unmarked and is retried by the next run
  - Processing continues with the next month`,

	Args: cobra.MaximumNArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&archiveDB,
		"archive-db",
		"",
		"SQLite archive of resolved transactions (overrides archive_db)",
	)

	processCmd.Flags().IntVar(
		&maxConcurrency,
		"max-concurrency",
		0,
		"Number of day files extracted at once (overrides max_concurrency)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	var monthsDir, workbook string
	if len(args) > 0 {
		monthsDir = args[0]
	}
	if len(args) > 1 {
		workbook = args[1]
	}
	cfg.SetPaths(monthsDir, workbook)
	if archiveDB != "" {
		cfg.ArchiveDB = archiveDB
	}
	if maxConcurrency > 0 {
		cfg.MaxConcurrency = maxConcurrency
	}

	fmt.Fprintln(out, "=== Fuel Journal Stats ===")
	fmt.Fprintf(out, "Months directory: %s\n", cfg.MonthsDir)
	fmt.Fprintf(out, "Workbook:         %s\n", cfg.Workbook)

	// =========================================================================
	// STEP 2: OPEN THE ARCHIVE
	// =========================================================================

	var opts []analyzer.Option
	if cfg.ArchiveDB != "" {
		st, err := store.Open(cfg.ArchiveDB)
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer st.Close()
		opts = append(opts, analyzer.WithArchive(st))
	}

	// =========================================================================
	// STEP 3: ANALYZE MONTHS
	// =========================================================================

	a := analyzer.New(cfg, log, opts...)
	results, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No month directories left to analyze.")
		return nil
	}

	// =========================================================================
	// STEP 4: SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{
		RunID:       a.RunID(),
		StartTime:   startTime,
		TotalMonths: len(results),
	}
	for _, r := range results {
		name := filepath.Base(r.MonthDir)
		summary.TotalDays += r.Stats.Days
		summary.FailedDays += r.Stats.FailedDays
		summary.FuelTransactions += r.Stats.FuelTransactions
		summary.CarWashes += r.Stats.CarWashes
		summary.Diagnostics += r.Stats.Diagnostics

		if r.Success {
			summary.SuccessfulMonths++
			summary.ProcessedMonths = append(summary.ProcessedMonths, utils.ProcessedMonthInfo{
				MonthDir:         name,
				Sheet:            r.Sheet,
				Days:             r.Stats.Days,
				FuelTransactions: r.Stats.FuelTransactions,
				CarWashes:        r.Stats.CarWashes,
				Diagnostics:      r.Stats.Diagnostics,
				ProcessTime:      r.Stats.ProcessingTime,
			})
			fmt.Fprintf(out, "  ✓ %s -> %s (%d days, %d diagnostics)\n", name, r.Sheet, r.Stats.Days, r.Stats.Diagnostics)
		} else {
			summary.FailedMonths++
			summary.FailedMonthsList = append(summary.FailedMonthsList, utils.FailedMonthInfo{
				MonthDir:     name,
				ErrorMessage: r.Error.Error(),
			})
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.Error)
		}
	}
	summary.EndTime = time.Now()

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total months:    %d\n", summary.TotalMonths)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulMonths)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedMonths)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(startTime))

	path, err := utils.WriteSummaryLog(summary, cfg.DiagnosticsDir)
	if err != nil {
		log.Warn("Failed to write summary: %v", err)
	} else {
		fmt.Fprintf(out, "Summary:         %s\n", path)
	}

	if summary.FailedMonths > 0 {
		return fmt.Errorf("%d of %d month(s) failed", summary.FailedMonths, summary.TotalMonths)
	}
	return nil
}
