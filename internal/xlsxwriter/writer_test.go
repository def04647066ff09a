package xlsxwriter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/fuelstats/internal/stats"
)

func column(date time.Time, fill int) DayColumn {
	values := make([]int, len(stats.Labels))
	for i := range values {
		values[i] = fill + i
	}
	return DayColumn{Date: date, Values: values}
}

func TestSheetTitle(t *testing.T) {
	assert.Equal(t, "March 2015", SheetTitle(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestWriteMonth_NewWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	wb, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.WriteMonth("March 2015", []DayColumn{
		column(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), 0),
		column(time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC), 100),
	}))
	assert.Equal(t, []string{"March 2015"}, wb.Sheets())
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("March 2015", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "", get("A1"))
	assert.Equal(t, "gallons < 5", get("A2"))
	assert.Equal(t, "Super outdoor", get("A24"))
	assert.Equal(t, "03/01", get("B1"))
	assert.Equal(t, "03/02", get("C1"))
	assert.Equal(t, "0", get("B2"))
	assert.Equal(t, "122", get("C24"))

	style, err := f.GetCellStyle("March 2015", "A2")
	require.NoError(t, err)
	s, err := f.GetStyle(style)
	require.NoError(t, err)
	require.NotNil(t, s.Font)
	assert.True(t, s.Font.Bold)
}

func TestWriteMonth_ReplacesExistingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")

	wb, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.WriteMonth("February 2015", []DayColumn{column(time.Date(2015, 2, 1, 0, 0, 0, 0, time.UTC), 1)}))
	require.NoError(t, wb.WriteMonth("March 2015", []DayColumn{
		column(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), 1),
		column(time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC), 1),
	}))
	require.NoError(t, wb.Save())
	require.NoError(t, wb.Close())

	wb, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.WriteMonth("March 2015", []DayColumn{column(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), 7)}))
	require.NoError(t, wb.Save())
	assert.ElementsMatch(t, []string{"February 2015", "March 2015"}, wb.Sheets())
	require.NoError(t, wb.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("March 2015", "B2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
	v, err = f.GetCellValue("March 2015", "C1")
	require.NoError(t, err)
	assert.Empty(t, v, "the old second day column is gone")
}

func TestWriteMonth_WrongValueCount(t *testing.T) {
	wb, err := Open(filepath.Join(t.TempDir(), "results.xlsx"))
	require.NoError(t, err)
	defer wb.Close()

	err = wb.WriteMonth("March 2015", []DayColumn{{Date: time.Now(), Values: []int{1, 2}}})
	assert.Error(t, err)
}

func TestOpen_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}
