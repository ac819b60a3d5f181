package cube

import (
	"errors"
	"path/filepath"
	"testing"

	"cubeproc/internal/excel"

	"github.com/xuri/excelize/v2"
)

type cellKey struct {
	sheet    string
	row, col int
}

var errBroken = errors.New("broken sheet")

// memBook is an in-memory Destination and ValueReader.
type memBook struct {
	sheets []string
	cells  map[cellKey]excel.Value
	broken map[string]bool
	writes int
}

func newMemBook(sheets ...string) *memBook {
	return &memBook{sheets: sheets, cells: make(map[cellKey]excel.Value), broken: make(map[string]bool)}
}

func (b *memBook) put(sheet string, row, col int, v excel.Value) *memBook {
	b.cells[cellKey{sheet, row, col}] = v
	return b
}

func (b *memBook) GetSheetNames() []string {
	return b.sheets
}

func (b *memBook) GetText(sheet string, row, col int) (string, error) {
	if b.broken[sheet] {
		return "", errBroken
	}
	return b.cells[cellKey{sheet, row, col}].String(), nil
}

func (b *memBook) GetValue(sheet string, row, col int) (excel.Value, error) {
	if b.broken[sheet] {
		return excel.Value{}, errBroken
	}
	return b.cells[cellKey{sheet, row, col}], nil
}

func (b *memBook) SetValue(sheet string, row, col int, v excel.Value) error {
	if b.broken[sheet] {
		return errBroken
	}
	b.writes++
	b.cells[cellKey{sheet, row, col}] = v
	return nil
}

func (b *memBook) SetText(sheet string, row, col int, text string) error {
	return b.SetValue(sheet, row, col, excel.Text(text))
}

func (b *memBook) value(sheet string, row, col int) excel.Value {
	return b.cells[cellKey{sheet, row, col}]
}

// sheetSpec describes one template sheet.
type sheetSpec struct {
	name        string
	marker      string
	castingDate string
}

func writeTemplate(t *testing.T, dir string, sheets ...sheetSpec) string {
	t.Helper()

	path := filepath.Join(dir, "office.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		f.SetCellValue(s.name, "A1", "CUBE TEST REPORT")
		if s.marker != "" {
			f.SetCellValue(s.name, "B12", s.marker)
		}
		if s.castingDate != "" {
			f.SetCellValue(s.name, "C17", s.castingDate)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save template: %v", err)
	}
	return path
}

// writeGradeFile writes rows of 6 weights and 6 strengths starting at row 2.
func writeGradeFile(t *testing.T, dir, name string, rows [][12]float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetRow("Sheet1", "A1", &[]string{"No", "W1", "W2", "W3", "W4", "W5", "W6", "", "S1", "S2", "S3", "S4", "S5", "S6"})
	for i, row := range rows {
		r := i + 2
		f.SetCellValue("Sheet1", cellName(t, r, 1), i+1)
		for c := 0; c < 6; c++ {
			f.SetCellValue("Sheet1", cellName(t, r, 2+c), row[c])
			f.SetCellValue("Sheet1", cellName(t, r, 9+c), row[6+c])
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save grade file: %v", err)
	}
	return path
}

func writeCalendarFile(t *testing.T, dir string, rows ...[3]string) string {
	t.Helper()

	path := filepath.Join(dir, "calendar.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetRow("Sheet1", "A1", &[]string{"Casting", "7 days", "28 days"})
	for i, row := range rows {
		values := []string{row[0], row[1], row[2]}
		if err := f.SetSheetRow("Sheet1", cellName(t, i+2, 1), &values); err != nil {
			t.Fatalf("calendar row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save calendar: %v", err)
	}
	return path
}

func cellName(t *testing.T, row, col int) string {
	t.Helper()
	name, err := excel.CellName(row, col)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	return name
}

func specimen(base float64) [12]float64 {
	var row [12]float64
	for i := range row {
		row[i] = base + float64(i)
	}
	return row
}
