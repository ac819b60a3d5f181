package cube

import "cubeproc/internal/excel"

// SheetReader reads displayed cell text. *excel.Editor satisfies every interface here.
type SheetReader interface {
	GetSheetNames() []string
	GetText(sheet string, row, col int) (string, error)
}

// ValueReader reads cells with their stored type.
type ValueReader interface {
	GetValue(sheet string, row, col int) (excel.Value, error)
}

type ValueWriter interface {
	SetValue(sheet string, row, col int, v excel.Value) error
}

// DateSheets is what the date annotator needs from the destination workbook.
type DateSheets interface {
	GetSheetNames() []string
	ValueReader
	SetText(sheet string, row, col int, text string) error
}

// Destination is the workbook a run writes into.
type Destination interface {
	SheetReader
	ValueReader
	ValueWriter
	SetText(sheet string, row, col int, text string) error
}

var _ Destination = (*excel.Editor)(nil)
