package excel

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Value is a cell's content as stored, not as displayed.
// Data is nil, a string, a float64 or a bool.
type Value struct {
	Data    any
	Formula string
}

// Text builds a string Value.
func Text(s string) Value {
	return Value{Data: s}
}

// Number builds a numeric Value.
func Number(f float64) Value {
	return Value{Data: f}
}

// IsEmpty reports whether the cell holds neither data nor a formula.
func (v Value) IsEmpty() bool {
	if v.Formula != "" {
		return false
	}
	switch d := v.Data.(type) {
	case nil:
		return true
	case string:
		return d == ""
	default:
		return false
	}
}

func (v Value) String() string {
	if v.Formula != "" {
		return "=" + strings.TrimPrefix(v.Formula, "=")
	}
	switch d := v.Data.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	default:
		return fmt.Sprint(d)
	}
}

// typedValue converts the raw stored text of a cell back into the Go type it was written as.
func typedValue(raw string, cellType excelize.CellType) any {
	if raw == "" {
		return nil
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "TRUE")
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if number, ok := parseNumericValue(raw); ok {
			return number
		}
		return raw
	default:
		return raw
	}
}

// parseNumericValue parses stored numeric text.
func parseNumericValue(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}

	floatVal, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return floatVal, true
}

// DateKey renders v in the form used to match casting dates across workbooks.
// Numbers are date serials and become 2006-01-02, with the time appended when
// it is not midnight. Anything else is its trimmed text, so a date typed as
// text in ISO form matches the same date stored as a serial. Formulas key on
// their cached result.
func (v Value) DateKey() string {
	switch d := v.Data.(type) {
	case nil:
		return ""
	case float64:
		t, err := excelize.ExcelDateToTime(d, false)
		if err != nil {
			return strconv.FormatFloat(d, 'f', -1, 64)
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.DateTime)
	default:
		return strings.TrimSpace(fmt.Sprint(d))
	}
}
