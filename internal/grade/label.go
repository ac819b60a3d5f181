// Package grade derives the grade label a source file is matched by.
//
// A label is either a concrete grade ("M20") or a mortar mix ratio ("1:4").
// Labels are compared only in normalized form: all whitespace removed and
// upper-cased, so "m 20" on a template sheet matches a file named M_20.xlsx.
package grade

import (
	"strings"
	"unicode"

	"cubeproc/internal/excel"
)

const mortarKeyword = "MORTAR"

// Extract returns the grade label encoded in a source file name.
//
//	MORTAR_1_4.xlsx -> "1:4"
//	m-20.xlsx       -> "M20"
//
// It never fails; unexpected names degrade to their cleaned-up upper-case form.
func Extract(filename string) string {
	name := strings.ToUpper(excel.BaseName(filename))

	if strings.Contains(name, mortarKeyword) && strings.Contains(name, "_") {
		parts := strings.Split(name, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-2] + ":" + parts[len(parts)-1]
		}
	}

	name = strings.ReplaceAll(name, "_", "")
	name = strings.ReplaceAll(name, "-", "")
	return strings.TrimSpace(name)
}

// Normalize removes every whitespace rune and upper-cases the rest.
func Normalize(label string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, label))
}

// Equal reports whether two labels name the same grade.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
