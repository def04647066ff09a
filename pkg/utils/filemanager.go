// =============================================================================
// Fuel Journal Stats - File Manager Utility
// =============================================================================
//
// This module provides the file-system conventions of the journal exports:
//   - Month discovery: sub-directories named YYYYMM
//   - Day discovery: journal files named YYYYMMDD.txt inside a month
//   - The "already analyzed" marker file that makes months skip on re-runs
//   - Run identifiers and the plain-text processing summary
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Date layouts of month directory and day file names.
const (
	MonthLayout = "200601"
	DayLayout   = "20060102"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the month pipeline.
type FileManager struct {
	// MonthsDir contains one directory per month.
	MonthsDir string

	// DayFilePattern is the glob matched against day file names.
	DayFilePattern string

	// MarkerFile is the name of the file that flags an analyzed month.
	MarkerFile string
}

// NewFileManager creates a new FileManager.
func NewFileManager(monthsDir, dayFilePattern, markerFile string) *FileManager {
	if dayFilePattern == "" {
		dayFilePattern = "*.txt"
	}
	if markerFile == "" {
		markerFile = "ALREADY_ANALYZED"
	}
	return &FileManager{
		MonthsDir:      monthsDir,
		DayFilePattern: dayFilePattern,
		MarkerFile:     markerFile,
	}
}

// =============================================================================
// MONTH AND DAY DISCOVERY
// =============================================================================

// MonthDir is a month directory waiting to be analyzed.
type MonthDir struct {
	Path  string
	Month time.Time
}

// DayFile is one day journal inside a month directory.
type DayFile struct {
	Path string
	Date time.Time
}

// DiscoverMonthDirectories lists the month directories that have not been
// analyzed yet, oldest first.
//
// RETURNS:
//   - The month directories, sorted by month.
//   - An error if MonthsDir cannot be read.
func (fm *FileManager) DiscoverMonthDirectories() ([]MonthDir, error) {
	entries, err := os.ReadDir(fm.MonthsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan months directory: %w", err)
	}

	var months []MonthDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		month, ok := ParseMonthDir(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(fm.MonthsDir, entry.Name())
		if fm.IsAnalyzed(path) {
			continue
		}
		months = append(months, MonthDir{Path: path, Month: month})
	}

	slices.SortFunc(months, func(a, b MonthDir) int { return a.Month.Compare(b.Month) })
	return months, nil
}

// DiscoverDayFiles lists the day journals of a month directory in day order.
// Files matching the pattern whose names are not a date are skipped.
func (fm *FileManager) DiscoverDayFiles(monthDir string) ([]DayFile, error) {
	files, err := filepath.Glob(filepath.Join(monthDir, fm.DayFilePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan month directory: %w", err)
	}

	var days []DayFile
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		date, ok := ParseDayFile(file)
		if !ok {
			continue
		}
		days = append(days, DayFile{Path: file, Date: date})
	}

	slices.SortFunc(days, func(a, b DayFile) int { return a.Date.Compare(b.Date) })
	return days, nil
}

// ParseMonthDir parses a YYYYMM directory name.
func ParseMonthDir(name string) (time.Time, bool) {
	if len(name) != len(MonthLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(MonthLayout, name)
	return t, err == nil
}

// ParseDayFile parses the date from a YYYYMMDD.<ext> file name.
func ParseDayFile(path string) (time.Time, bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if len(base) != len(DayLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DayLayout, base)
	return t, err == nil
}

// =============================================================================
// ANALYZED MARKER
// =============================================================================

// IsAnalyzed reports whether monthDir holds the marker file.
func (fm *FileManager) IsAnalyzed(monthDir string) bool {
	return FileExists(filepath.Join(monthDir, fm.MarkerFile))
}

// MarkAnalyzed creates the marker file in monthDir, or refreshes its
// modification time when it already exists.
func (fm *FileManager) MarkAnalyzed(monthDir string) error {
	path := filepath.Join(monthDir, fm.MarkerFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to mark %s as analyzed: %w", monthDir, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to mark %s as analyzed: %w", monthDir, err)
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("failed to mark %s as analyzed: %w", monthDir, err)
	}
	return nil
}

// =============================================================================
// RUN IDENTIFIERS
// =============================================================================

// NewRunID returns a fresh identifier for one processing run.
func NewRunID() string {
	return uuid.New().String()
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	RunID            string
	StartTime        time.Time
	EndTime          time.Time
	TotalMonths      int
	SuccessfulMonths int
	FailedMonths     int
	TotalDays        int
	FailedDays       int
	FuelTransactions int
	CarWashes        int
	Diagnostics      int
	ProcessedMonths  []ProcessedMonthInfo
	FailedMonthsList []FailedMonthInfo
}

// ProcessedMonthInfo describes a successfully analyzed month.
type ProcessedMonthInfo struct {
	MonthDir         string
	Sheet            string
	Days             int
	FuelTransactions int
	CarWashes        int
	Diagnostics      int
	ProcessTime      time.Duration
}

// FailedMonthInfo describes a month that could not be analyzed.
type FailedMonthInfo struct {
	MonthDir     string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary to a text file.
//
// PARAMETERS:
//   - summary: The processing summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outputDir, err)
	}
	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Fuel Journal Stats - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Months:       %d\n"+
		"  Successful:         %d\n"+
		"  Failed:             %d\n"+
		"  Days:               %d\n"+
		"  Failed Days:        %d\n"+
		"  Fuel Transactions:  %d\n"+
		"  Car Washes:         %d\n"+
		"  Diagnostics:        %d\n\n",
		summary.RunID,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalMonths,
		summary.SuccessfulMonths,
		summary.FailedMonths,
		summary.TotalDays,
		summary.FailedDays,
		summary.FuelTransactions,
		summary.CarWashes,
		summary.Diagnostics)

	if len(summary.ProcessedMonths) > 0 {
		writer.WriteString("Analyzed Months:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pm := range summary.ProcessedMonths {
			fmt.Fprintf(writer, "  Month:        %s\n", pm.MonthDir)
			fmt.Fprintf(writer, "  Sheet:        %s\n", pm.Sheet)
			fmt.Fprintf(writer, "  Days:         %d\n", pm.Days)
			fmt.Fprintf(writer, "  Fuel:         %d\n", pm.FuelTransactions)
			fmt.Fprintf(writer, "  Car Washes:   %d\n", pm.CarWashes)
			fmt.Fprintf(writer, "  Diagnostics:  %d\n", pm.Diagnostics)
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pm.ProcessTime.String())
		}
	}

	if len(summary.FailedMonthsList) > 0 {
		writer.WriteString("Failed Months:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, fm := range summary.FailedMonthsList {
			fmt.Fprintf(writer, "  Month: %s\n", fm.MonthDir)
			fmt.Fprintf(writer, "  Error: %s\n\n", fm.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
