// =============================================================================
// Fuel Journal Stats - Workbook Writer
// =============================================================================
//
// This module persists daily statistics to an XLSX workbook, one sheet per
// month:
//
//   |   | A (labels)         | B      | C      | ...
//   |---|--------------------|--------|--------|
//   | 1 |                    | 03/01  | 03/02  |
//   | 2 | gallons < 5        | 12     | 9      |
//   | 3 | 5 < gallons < 10   | 40     | 37     |
//   |...| ...                |        |        |
//
// Labels and day headings are bold on a light grey fill. A month analyzed
// again replaces its sheet.
//
// =============================================================================

package xlsxwriter

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuelstats/internal/stats"
)

const (
	labelColumn = 1
	firstDayCol = 2
	headingRow  = 1
	firstRow    = 2

	labelFill = "EEEEEE"
)

// defaultSheet is the empty sheet excelize puts in a new workbook.
const defaultSheet = "Sheet1"

// DayColumn is one day's column of a month sheet.
type DayColumn struct {
	Date time.Time

	// Values are the counts in stats.Labels order.
	Values []int
}

// Workbook is an open results workbook.
type Workbook struct {
	path       string
	file       *excelize.File
	labelStyle int

	// fresh is set until the first month sheet replaces the default one.
	fresh bool
}

// Open loads the workbook at path, or starts a new one if the file does not
// exist yet.
func Open(path string) (*Workbook, error) {
	wb := &Workbook{path: path}

	f, err := excelize.OpenFile(path)
	switch {
	case err == nil:
		wb.file = f
	case errors.Is(err, fs.ErrNotExist):
		wb.file = excelize.NewFile()
		wb.fresh = true
	default:
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	style, err := wb.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{labelFill}},
	})
	if err != nil {
		wb.file.Close()
		return nil, fmt.Errorf("failed to create label style: %w", err)
	}
	wb.labelStyle = style

	return wb, nil
}

// SheetTitle returns the sheet name of a month, e.g. "March 2015".
func SheetTitle(month time.Time) string {
	return month.Format("January 2006")
}

// Sheets returns the sheet names in workbook order.
func (wb *Workbook) Sheets() []string {
	return wb.file.GetSheetList()
}

// WriteMonth writes a month sheet with one column per day, in the order
// given.
func (wb *Workbook) WriteMonth(title string, days []DayColumn) error {
	idx, err := wb.file.GetSheetIndex(title)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %q: %w", title, err)
	}
	// excelize keeps the last sheet of a workbook, so the old sheet moves
	// aside until its replacement exists.
	stale := ""
	if idx >= 0 {
		stale = "~" + title
		if err := wb.file.SetSheetName(title, stale); err != nil {
			return fmt.Errorf("failed to replace sheet %q: %w", title, err)
		}
	}
	if _, err = wb.file.NewSheet(title); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", title, err)
	}
	if stale != "" {
		if err := wb.file.DeleteSheet(stale); err != nil {
			return fmt.Errorf("failed to replace sheet %q: %w", title, err)
		}
	}

	if wb.fresh {
		if err := wb.file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		wb.fresh = false
	}
	if idx, err = wb.file.GetSheetIndex(title); err == nil {
		wb.file.SetActiveSheet(idx)
	}

	for i, label := range stats.Labels {
		if err := wb.setLabel(title, labelColumn, firstRow+i, label); err != nil {
			return err
		}
	}
	if err := wb.file.SetColWidth(title, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to size label column: %w", err)
	}

	for d, day := range days {
		col := firstDayCol + d
		if err := wb.setLabel(title, col, headingRow, day.Date.Format("01/02")); err != nil {
			return err
		}
		if len(day.Values) != len(stats.Labels) {
			return fmt.Errorf("day %s has %d values, want %d", day.Date.Format("2006-01-02"), len(day.Values), len(stats.Labels))
		}
		for i, v := range day.Values {
			cell, err := excelize.CoordinatesToCellName(col, firstRow+i)
			if err != nil {
				return err
			}
			if err := wb.file.SetCellValue(title, cell, v); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", title, cell, err)
			}
		}
	}
	return nil
}

func (wb *Workbook) setLabel(sheet string, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	if err := wb.file.SetCellStyle(sheet, cell, cell, wb.labelStyle); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Save writes the workbook back to its path.
func (wb *Workbook) Save() error {
	if err := wb.file.SaveAs(wb.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", wb.path, err)
	}
	return nil
}

// Close releases the workbook. Unsaved changes are lost.
func (wb *Workbook) Close() error {
	return wb.file.Close()
}
