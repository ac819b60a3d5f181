package excel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filepath, err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// CopyFile copies src to dst byte for byte, replacing dst if it exists.
// Drawings and images embedded in src survive because the workbook is never re-encoded.
func CopyFile(src, dst string) error {
	srcAbs, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	dstAbs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	if srcAbs == dstAbs {
		return fmt.Errorf("copy %s: source and destination are the same file", src)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// OpenCopy copies the workbook at src to dst and opens the copy for editing.
func OpenCopy(src, dst string) (*Editor, error) {
	if err := CopyFile(src, dst); err != nil {
		return nil, err
	}
	return OpenFile(dst)
}

// GetSheetNames returns all sheet names in workbook order
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// ActiveSheet returns the name of the sheet that was selected when the workbook was saved.
func (e *Editor) ActiveSheet() string {
	return e.file.GetSheetName(e.file.GetActiveSheetIndex())
}

// GetText returns the displayed text of the cell at 1-based row and column.
func (e *Editor) GetText(sheet string, row, col int) (string, error) {
	cell, err := CellName(row, col)
	if err != nil {
		return "", err
	}
	return e.file.GetCellValue(sheet, cell)
}

// SetText writes text into the cell at 1-based row and column.
func (e *Editor) SetText(sheet string, row, col int, text string) error {
	cell, err := CellName(row, col)
	if err != nil {
		return err
	}
	return e.file.SetCellStr(sheet, cell, text)
}

// GetValue reads the cell at 1-based row and column with its type and formula preserved.
func (e *Editor) GetValue(sheet string, row, col int) (Value, error) {
	cell, err := CellName(row, col)
	if err != nil {
		return Value{}, err
	}

	formula, err := e.file.GetCellFormula(sheet, cell)
	if err != nil {
		return Value{}, fmt.Errorf("cell %s: %w", cell, err)
	}

	raw, err := e.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Value{}, fmt.Errorf("cell %s: %w", cell, err)
	}

	cellType, err := e.file.GetCellType(sheet, cell)
	if err != nil {
		return Value{}, fmt.Errorf("cell %s: %w", cell, err)
	}

	return Value{Data: typedValue(raw, cellType), Formula: formula}, nil
}

// SetValue writes v into the cell at 1-based row and column. Formulas win over data.
func (e *Editor) SetValue(sheet string, row, col int, v Value) error {
	cell, err := CellName(row, col)
	if err != nil {
		return err
	}

	if v.Formula != "" {
		return e.file.SetCellFormula(sheet, cell, v.Formula)
	}
	if v.Data == nil {
		return e.file.SetCellValue(sheet, cell, "")
	}
	return e.file.SetCellValue(sheet, cell, v.Data)
}

// Save writes the workbook back to the file it was opened from.
func (e *Editor) Save() error {
	return e.file.SaveAs(e.filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// CellName converts 1-based row and column to a cell reference (12,2 -> "B12").
func CellName(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("invalid cell (%d,%d): %w", row, col, err)
	}
	return cell, nil
}

// BaseName returns the file name without directory and without anything from the first dot on.
// Both slash styles are treated as separators so names recorded on Windows resolve the same way.
func BaseName(path string) string {
	name := path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name, _, _ = strings.Cut(name, ".")
	return name
}
