package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SheetMarker is the raw marker text found on one template sheet.
type SheetMarker struct {
	Sheet  string
	Marker string
}

// GetXlsxFiles returns all .xlsx files under dir, sorted by path.
// Office lock files ("~$name.xlsx") are skipped.
func GetXlsxFiles(dir string) ([]string, error) {
	var xlsxFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || strings.HasPrefix(info.Name(), "~$") {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
			xlsxFiles = append(xlsxFiles, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(xlsxFiles)
	return xlsxFiles, nil
}

// ScanMarkers reads the cell at (row, col) of every sheet in the workbook, in sheet order.
// Sheets with an empty marker cell are left out.
func ScanMarkers(path string, row, col int) ([]SheetMarker, error) {
	editor, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	var markers []SheetMarker
	for _, sheet := range editor.GetSheetNames() {
		text, err := editor.GetText(sheet, row, col)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		markers = append(markers, SheetMarker{Sheet: sheet, Marker: text})
	}

	return markers, nil
}

// UniqueMarkers returns the distinct marker texts in first-seen order.
// Markers that differ only in spacing or case are reported once, using key to compare.
func UniqueMarkers(markers []SheetMarker, key func(string) string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, m := range markers {
		k := key(m.Marker)
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, strings.TrimSpace(m.Marker))
	}
	return unique
}
