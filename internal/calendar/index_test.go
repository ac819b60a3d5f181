package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func writeCalendar(t *testing.T, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "calendar.xlsx")
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetRow("Sheet1", "A1", &[]string{"Casting", "7 days", "28 days"})
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save calendar: %v", err)
	}
	return path
}

func TestLoadMissingPath(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.xlsx")} {
		idx, err := Load(path)
		if !errors.Is(err, ErrNotAvailable) {
			t.Fatalf("Load(%q) want ErrNotAvailable got %v", path, err)
		}
		if idx != nil {
			t.Fatalf("Load(%q) returned an index", path)
		}
	}
}

func TestLoadUnreadableWorkbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "calendar.xlsx")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNotAvailable) {
		t.Fatalf("want ErrNotAvailable got %v", err)
	}
}

func TestLoadStopsAtFirstEmptyKey(t *testing.T) {
	t.Parallel()

	path := writeCalendar(t, [][]string{
		{"2024-01-01", "2024-01-08", "2024-01-29"},
		{" 2024-01-02 ", " 2024-01-09 ", ""},
		{"", "ignored", "ignored"},
		{"2024-01-04", "2024-01-11", "2024-02-01"},
	})

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(idx) != 2 {
		t.Fatalf("want 2 entries got %d: %v", len(idx), idx)
	}

	entry, ok := idx.Lookup("2024-01-01")
	if !ok || entry.Plus7 != "2024-01-08" || entry.Plus28 != "2024-01-29" {
		t.Fatalf("unexpected entry: %+v ok=%v", entry, ok)
	}

	trimmed, ok := idx.Lookup("2024-01-02 ")
	if !ok || trimmed.Plus7 != "2024-01-09" || trimmed.Plus28 != "" {
		t.Fatalf("unexpected trimmed entry: %+v ok=%v", trimmed, ok)
	}

	if _, ok := idx.Lookup("2024-01-04"); ok {
		t.Fatalf("row after the first empty key must not be loaded")
	}
}

func TestLoadEmptyCalendar(t *testing.T) {
	t.Parallel()

	idx, err := Load(writeCalendar(t, nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(idx) != 0 {
		t.Fatalf("want empty index got %v", idx)
	}
}

func TestLoadKeysDateCellsOnStoredValue(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "calendar.xlsx")
	f := excelize.NewFile()
	numFmt := "dd mmm yyyy"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	f.SetCellValue("Sheet1", "A2", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	f.SetCellStyle("Sheet1", "A2", "A2", style)
	f.SetCellValue("Sheet1", "B2", "2024-01-08")
	f.SetCellValue("Sheet1", "C2", "2024-01-29")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save calendar: %v", err)
	}
	f.Close()

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entry, ok := idx.Lookup("2024-01-01")
	if !ok || entry.Plus7 != "2024-01-08" {
		t.Fatalf("date cell not keyed canonically: %v", idx)
	}
}
