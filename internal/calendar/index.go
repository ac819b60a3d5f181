// Package calendar loads the casting-date lookup table.
//
// The calendar workbook's active sheet holds one casting date per row from
// row 2: column A the casting date, B the 7-day test date, C the 28-day test
// date. All date arithmetic is done in the spreadsheet. Casting dates are keyed
// on the stored cell value (see excel.Value.DateKey), so a key matches the same
// date in another workbook however either cell is formatted.
package calendar

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cubeproc/internal/excel"
	"cubeproc/internal/logger"
)

const (
	firstRow  = 2
	keyCol    = 1
	plus7Col  = 2
	plus28Col = 3
)

// ErrNotAvailable is returned when no calendar can be read.
var ErrNotAvailable = errors.New("calendar not available")

// Entry holds the precomputed test dates for one casting date. Either may be empty.
type Entry struct {
	Plus7  string
	Plus28 string
}

// Index maps casting-date keys to their test dates.
type Index map[string]Entry

// Lookup finds the entry for a casting-date key after trimming it.
func (idx Index) Lookup(castingDate string) (Entry, bool) {
	entry, ok := idx[strings.TrimSpace(castingDate)]
	return entry, ok
}

// Load reads the calendar workbook at path. It stops at the first row whose
// key cell is empty, even if rows further down are filled.
func Load(path string) (Index, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no calendar file selected: %w", ErrNotAvailable)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("calendar %s: %w: %v", path, ErrNotAvailable, err)
	}

	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	defer editor.Close()

	sheet := editor.ActiveSheet()
	index := make(Index)

	for row := firstRow; ; row++ {
		cell, err := editor.GetValue(sheet, row, keyCol)
		if err != nil {
			return nil, fmt.Errorf("calendar %s row %d: %w: %v", path, row, ErrNotAvailable, err)
		}
		key := cell.DateKey()
		if key == "" {
			break
		}

		plus7, err := editor.GetText(sheet, row, plus7Col)
		if err != nil {
			return nil, fmt.Errorf("calendar %s row %d: %w: %v", path, row, ErrNotAvailable, err)
		}
		plus28, err := editor.GetText(sheet, row, plus28Col)
		if err != nil {
			return nil, fmt.Errorf("calendar %s row %d: %w: %v", path, row, ErrNotAvailable, err)
		}

		index[key] = Entry{
			Plus7:  strings.TrimSpace(plus7),
			Plus28: strings.TrimSpace(plus28),
		}
	}

	logger.Info("Calendar loaded", "path", path, "dates", len(index))
	return index, nil
}
