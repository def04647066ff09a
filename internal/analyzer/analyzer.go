// =============================================================================
// Fuel Journal Stats - Month Analyzer
// =============================================================================
//
// This module orchestrates the pipeline for one month directory, from the day
// journals to the workbook sheet.
//
// ANALYSIS PIPELINE:
//   1. Discover the day journals of the month
//   2. Extract every day (concurrently, bounded by max_concurrency)
//   3. Validate the resolved transactions of each day
//   4. Aggregate each day into a workbook column
//   5. Write and save the month sheet
//   6. Write the month's diagnostics report
//   7. Archive the days (when an archive is configured)
//   8. Mark the month directory as analyzed
//
// A day that cannot be extracted does not fail the month: it contributes an
// empty column and a fatal diagnostic. A month fails when its sheet cannot be
// written; it is then left unmarked so the next run retries it.
//
// =============================================================================

package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/fuelstats/internal/config"
	"github.com/ginjaninja78/fuelstats/internal/logger"
	"github.com/ginjaninja78/fuelstats/internal/logparser"
	"github.com/ginjaninja78/fuelstats/internal/stats"
	"github.com/ginjaninja78/fuelstats/internal/validation"
	"github.com/ginjaninja78/fuelstats/internal/xlsxwriter"
	"github.com/ginjaninja78/fuelstats/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of analyzing a single month.
type Result struct {
	// MonthDir is the month directory that was analyzed.
	MonthDir string

	// Month is the first day of the month.
	Month time.Time

	// Sheet is the workbook sheet written for the month.
	// This is empty if analysis failed before the sheet was written.
	Sheet string

	// Days holds one extraction result per day journal, in day order.
	Days []*logparser.DayResult

	// DiagnosticsFile is the path of the month's diagnostics report.
	DiagnosticsFile string

	// Success indicates whether the month was analyzed and marked.
	Success bool

	// Error contains the error if analysis failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the analysis of a month.
type ProcessingStats struct {
	// Days is the number of day journals found.
	Days int

	// FailedDays is the number of days that could not be extracted.
	FailedDays int

	// FuelTransactions is the number of resolved fuel sales.
	FuelTransactions int

	// CarWashes counts stand-alone washes; attached ones ride on their sale.
	CarWashes int

	// Diagnostics is the number of diagnostics over all days, including
	// validation warnings.
	Diagnostics int

	// ProcessingTime is the time taken to analyze the month.
	ProcessingTime time.Duration
}

// =============================================================================
// ANALYZER STRUCTURE
// =============================================================================

// Archive receives every analyzed day. *store.Store implements it.
type Archive interface {
	BeginRun(ctx context.Context, runID string, started time.Time) error
	SaveDay(ctx context.Context, runID string, day *logparser.DayResult) error
}

// Analyzer runs the month pipeline over a months directory.
type Analyzer struct {
	cfg     *config.MainConfig
	files   *utils.FileManager
	archive Archive
	runID   string
	logger  logger.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithArchive archives every analyzed day into a.
func WithArchive(a Archive) Option {
	return func(an *Analyzer) { an.archive = a }
}

// WithRunID overrides the generated run identifier.
func WithRunID(id string) Option {
	return func(an *Analyzer) { an.runID = id }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates an Analyzer.
//
// PARAMETERS:
//   - cfg: The loaded configuration (defaults applied).
//   - log: The logger; each day is extracted through a child carrying its
//     file name.
//   - opts: Optional archive and run id.
func New(cfg *config.MainConfig, log logger.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:    cfg,
		files:  utils.NewFileManager(cfg.MonthsDir, cfg.DayFilePattern, cfg.MarkerFile),
		runID:  utils.NewRunID(),
		logger: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunID returns the identifier stamped on the reports and archive rows.
func (a *Analyzer) RunID() string {
	return a.runID
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// Run analyzes every month directory not yet marked as analyzed, oldest
// first.
//
// RETURNS:
//   - One Result per month, in month order.
//   - An error if the months could not be listed, the workbook could not be
//     opened, or ctx was canceled. Month failures are reported in the results.
func (a *Analyzer) Run(ctx context.Context) ([]Result, error) {
	months, err := a.files.DiscoverMonthDirectories()
	if err != nil {
		return nil, fmt.Errorf("failed to discover month directories: %w", err)
	}
	if len(months) == 0 {
		a.logger.Info("No months left to analyze in %s", a.cfg.MonthsDir)
		return nil, nil
	}
	a.logger.Info("Found %d month(s) to analyze", len(months))

	if a.archive != nil {
		if err := a.archive.BeginRun(ctx, a.runID, time.Now()); err != nil {
			return nil, err
		}
	}

	wb, err := xlsxwriter.Open(a.cfg.Workbook)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	results := make([]Result, 0, len(months))
	for _, month := range months {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, a.AnalyzeMonth(ctx, wb, month))
	}
	return results, nil
}

// AnalyzeMonth runs the pipeline for one month and saves the workbook.
func (a *Analyzer) AnalyzeMonth(ctx context.Context, wb *xlsxwriter.Workbook, month utils.MonthDir) Result {
	startTime := time.Now()
	result := Result{
		MonthDir: month.Path,
		Month:    month.Month,
	}
	fail := func(err error) Result {
		result.Error = err
		result.Stats.ProcessingTime = time.Since(startTime)
		a.logger.Error("Month %s failed: %v", month.Path, err)
		return result
	}

	a.logger.Info("Analyzing month: %s", month.Path)

	// =========================================================================
	// STEP 1: DISCOVER DAY JOURNALS
	// =========================================================================

	days, err := a.files.DiscoverDayFiles(month.Path)
	if err != nil {
		return fail(err)
	}
	if len(days) == 0 {
		return fail(fmt.Errorf("no day journals matching %q", a.cfg.DayFilePattern))
	}
	result.Stats.Days = len(days)

	// =========================================================================
	// STEP 2: EXTRACT DAYS
	// =========================================================================

	results, err := a.extractDays(ctx, days)
	if err != nil {
		return fail(err)
	}
	result.Days = results
	result.Stats.FailedDays = result.FailedDays()

	// =========================================================================
	// STEPS 3-4: VALIDATE AND AGGREGATE
	// =========================================================================

	columns := make([]xlsxwriter.DayColumn, 0, len(results))
	for _, res := range results {
		v := validation.Validate(res)
		if v.WarningCount > 0 || v.ErrorCount > 0 {
			a.logger.Warn("%s: %s", filepath.Base(res.Source), validation.FormatErrors(v.Errors))
			res.Diagnostics = append(res.Diagnostics, v.Diagnostics()...)
		}

		columns = append(columns, xlsxwriter.DayColumn{
			Date:   res.Date,
			Values: stats.Compute(res).Values(),
		})

		result.Stats.FuelTransactions += len(res.Fuel)
		result.Stats.CarWashes += len(res.CarWashes)
		result.Stats.Diagnostics += len(res.Diagnostics)
	}

	// =========================================================================
	// STEP 5: WRITE THE MONTH SHEET
	// =========================================================================

	sheet := xlsxwriter.SheetTitle(month.Month)
	if err := wb.WriteMonth(sheet, columns); err != nil {
		return fail(err)
	}
	if err := wb.Save(); err != nil {
		return fail(err)
	}
	result.Sheet = sheet
	a.logger.Debug("Wrote sheet %q with %d day column(s)", sheet, len(columns))

	// =========================================================================
	// STEP 6: WRITE THE DIAGNOSTICS REPORT
	// =========================================================================

	reportPath, err := a.writeDiagnostics(month, results)
	if err != nil {
		return fail(err)
	}
	result.DiagnosticsFile = reportPath

	// =========================================================================
	// STEP 7: ARCHIVE
	// =========================================================================
	// Archive failures are logged; the workbook is the primary output.

	if a.archive != nil {
		for _, res := range results {
			if err := a.archive.SaveDay(ctx, a.runID, res); err != nil {
				a.logger.Warn("Failed to archive %s: %v", res.Source, err)
			}
		}
	}

	// =========================================================================
	// STEP 8: MARK AS ANALYZED
	// =========================================================================

	if err := a.files.MarkAnalyzed(month.Path); err != nil {
		return fail(err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	a.logger.Info("Month %s done: %d day(s), %d fuel transaction(s), %d diagnostic(s)",
		filepath.Base(month.Path), result.Stats.Days, result.Stats.FuelTransactions, result.Stats.Diagnostics)

	return result
}

// extractDays extracts the day journals concurrently. Each goroutine owns its
// own extraction state and writes only its own slot, so results come back in
// day order.
func (a *Analyzer) extractDays(ctx context.Context, days []utils.DayFile) ([]*logparser.DayResult, error) {
	results := make([]*logparser.DayResult, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.MaxConcurrency)

	for i, day := range days {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := filepath.Base(day.Path)
			dayLog := logger.With(a.logger, "day", name)
			extractor := logparser.New(
				logparser.WithLogger(dayLog),
				logparser.WithEncoding(a.cfg.Encoding),
			)

			res, err := extractor.ExtractFile(gctx, day.Path)
			res.Date = day.Date
			results[i] = res
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				dayLog.Error("Day %s could not be extracted: %v", name, err)
				return nil
			}
			dayLog.Info("Day %s: %d fuel transaction(s), %d car wash(es), %d diagnostic(s)",
				name, len(res.Fuel), len(res.CarWashes), len(res.Diagnostics))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("day extraction interrupted: %w", err)
	}
	return results, nil
}

// FailedDays counts the days of r that ended in a fatal diagnostic.
func (r Result) FailedDays() int {
	n := 0
	for _, d := range r.Days {
		for _, dg := range d.Diagnostics {
			if dg.Kind == logparser.KindFatal {
				n++
				break
			}
		}
	}
	return n
}

// =============================================================================
// DIAGNOSTICS REPORT
// =============================================================================

// diagnosticsReport is the YAML document written per month.
type diagnosticsReport struct {
	RunID     string      `yaml:"run_id"`
	Month     string      `yaml:"month"`
	Generated string      `yaml:"generated"`
	Days      []dayReport `yaml:"days"`
}

type dayReport struct {
	Date        string                 `yaml:"date"`
	Source      string                 `yaml:"source"`
	Fuel        int                    `yaml:"fuel_transactions"`
	CarWashes   int                    `yaml:"car_washes"`
	Pumps       map[int]int            `yaml:"pumps,omitempty"`
	Diagnostics []logparser.Diagnostic `yaml:"diagnostics"`
}

// writeDiagnostics writes diagnostics_YYYYMM.yaml into the diagnostics
// directory and returns its path.
func (a *Analyzer) writeDiagnostics(month utils.MonthDir, days []*logparser.DayResult) (string, error) {
	report := diagnosticsReport{
		RunID:     a.runID,
		Month:     month.Month.Format("2006-01"),
		Generated: time.Now().Format(time.RFC3339),
		Days:      make([]dayReport, 0, len(days)),
	}
	for _, d := range days {
		diags := d.Diagnostics
		if diags == nil {
			diags = []logparser.Diagnostic{}
		}
		report.Days = append(report.Days, dayReport{
			Date:        d.Date.Format("2006-01-02"),
			Source:      filepath.Base(d.Source),
			Fuel:        len(d.Fuel),
			CarWashes:   len(d.CarWashes),
			Pumps:       stats.PumpCounts(d),
			Diagnostics: diags,
		})
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode diagnostics report: %w", err)
	}

	if err := os.MkdirAll(a.cfg.DiagnosticsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create diagnostics directory: %w", err)
	}
	path := filepath.Join(a.cfg.DiagnosticsDir, fmt.Sprintf("diagnostics_%s.yaml", month.Month.Format(utils.MonthLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write diagnostics report: %w", err)
	}
	return path, nil
}
