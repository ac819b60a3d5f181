package cube

import (
	"fmt"

	"cubeproc/internal/calendar"

	"github.com/hashicorp/go-multierror"
)

// Annotate fills in the 7-day and 28-day test dates of every sheet whose
// casting date is in the calendar, and returns how many sheets were updated.
//
// Sheets without a casting date are skipped silently. An empty calendar field
// leaves its cell as it is. Casting dates missing from the calendar are
// warned about and the sheet is left untouched. A sheet that fails is
// reported in the error and the remaining sheets are still processed.
func Annotate(wb DateSheets, index calendar.Index, journal *Journal) (int, error) {
	updated := 0
	var errs *multierror.Error

	for _, sheet := range wb.GetSheetNames() {
		sheetLog := journal.With("sheet", sheet)
		ok, err := annotateSheet(wb, sheet, index, sheetLog)
		if err != nil {
			sheetLog.Errorf("%s: %v", sheet, err)
			errs = multierror.Append(errs, fmt.Errorf("sheet %q: %w", sheet, err))
			continue
		}
		if ok {
			updated++
		}
	}

	journal.Infof("Sheets updated: %d", updated)
	return updated, errs.ErrorOrNil()
}

func annotateSheet(wb DateSheets, sheet string, index calendar.Index, journal *Journal) (bool, error) {
	cell, err := wb.GetValue(sheet, CastingDateRow, CastingDateCol)
	if err != nil {
		return false, fmt.Errorf("casting date: %w", err)
	}
	castingDate := cell.DateKey()
	if castingDate == "" {
		return false, nil
	}

	entry, found := index.Lookup(castingDate)
	if !found {
		journal.Warnf("Date not in calendar: %s (%s)", castingDate, sheet)
		return false, nil
	}

	if entry.Plus7 != "" {
		if err := wb.SetText(sheet, TestDateRow, Plus7Col, entry.Plus7); err != nil {
			return false, fmt.Errorf("7-day date: %w", err)
		}
	}
	if entry.Plus28 != "" {
		if err := wb.SetText(sheet, TestDateRow, Plus28Col, entry.Plus28); err != nil {
			return false, fmt.Errorf("28-day date: %w", err)
		}
	}

	journal.Infof("%s: %s -> 7d:%s, 28d:%s", sheet, castingDate, entry.Plus7, entry.Plus28)
	return true, nil
}
