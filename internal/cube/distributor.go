package cube

import (
	"fmt"

	"cubeproc/internal/excel"
)

// SourceRow is one specimen set read from a grade file.
type SourceRow struct {
	Row       int
	Weights   [ValuesPerRow]excel.Value
	Strengths [ValuesPerRow]excel.Value
}

// Assignment pairs a source row with the destination sheet it is written to.
type Assignment struct {
	Row   SourceRow
	Sheet string
}

// maxRows is the last row an xlsx sheet can hold.
const maxRows = 1048576

// ReadSourceRows reads rows from SourceFirstRow until the first row whose key
// column is empty.
func ReadSourceRows(src ValueReader, sheet string) ([]SourceRow, error) {
	var rows []SourceRow

	for r := SourceFirstRow; r <= maxRows; r++ {
		key, err := src.GetValue(sheet, r, SourceKeyCol)
		if err != nil {
			return rows, fmt.Errorf("row %d: %w", r, err)
		}
		if key.IsEmpty() {
			break
		}

		row := SourceRow{Row: r}
		for i := 0; i < ValuesPerRow; i++ {
			if row.Weights[i], err = src.GetValue(sheet, r, SourceWeightCol+i); err != nil {
				return rows, fmt.Errorf("row %d weight %d: %w", r, i+1, err)
			}
			if row.Strengths[i], err = src.GetValue(sheet, r, SourceStrengthCol+i); err != nil {
				return rows, fmt.Errorf("row %d strength %d: %w", r, i+1, err)
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Pair assigns rows to sheets in order: the first row to the first sheet, the
// second to the second, and so on. Each sheet receives at most one row. Rows
// left over once the sheets run out are not assigned; dropped counts them.
func Pair(rows []SourceRow, sheets []string) (pairs []Assignment, dropped int) {
	n := min(len(rows), len(sheets))

	pairs = make([]Assignment, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, Assignment{Row: rows[i], Sheet: sheets[i]})
	}

	return pairs, len(rows) - n
}

// Distribute writes each paired row's weights to row 25 and strengths to row
// 27 of its sheet, starting at column C, and returns how many rows were
// written. A failed write stops the distribution.
func Distribute(dst ValueWriter, rows []SourceRow, sheets []string, journal *Journal) (int, error) {
	pairs, dropped := Pair(rows, sheets)

	written := 0
	for _, p := range pairs {
		sheetLog := journal.With("sheet", p.Sheet)
		if err := writeRow(dst, p); err != nil {
			sheetLog.Errorf("Row %d -> %s failed: %v", p.Row.Row, p.Sheet, err)
			return written, fmt.Errorf("row %d -> sheet %q: %w", p.Row.Row, p.Sheet, err)
		}
		written++
		sheetLog.Infof("  Row %d -> %s", p.Row.Row, p.Sheet)
	}

	if dropped > 0 {
		journal.Warnf("More data rows than available sheets: %d row(s) not copied", dropped)
	}

	return written, nil
}

func writeRow(dst ValueWriter, p Assignment) error {
	for i := 0; i < ValuesPerRow; i++ {
		if err := dst.SetValue(p.Sheet, WeightRow, DestinationFirstCol+i, p.Row.Weights[i]); err != nil {
			return err
		}
	}
	for i := 0; i < ValuesPerRow; i++ {
		if err := dst.SetValue(p.Sheet, StrengthRow, DestinationFirstCol+i, p.Row.Strengths[i]); err != nil {
			return err
		}
	}
	return nil
}
