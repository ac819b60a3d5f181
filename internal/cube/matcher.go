package cube

import (
	"fmt"
	"strings"

	"cubeproc/internal/grade"

	"github.com/hashicorp/go-multierror"
)

// FindMatches returns, in workbook order, the sheets whose marker cell names
// the same grade as label. No match is an empty result, not an error.
// Sheets whose marker cannot be read are left out and reported in the error;
// the matches that were found are returned either way.
func FindMatches(wb SheetReader, label string) ([]string, error) {
	var matches []string
	var errs *multierror.Error
	for _, sheet := range wb.GetSheetNames() {
		marker, err := wb.GetText(sheet, MarkerRow, MarkerCol)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sheet %q marker: %w", sheet, err))
			continue
		}
		if strings.TrimSpace(marker) == "" {
			continue
		}
		if grade.Equal(marker, label) {
			matches = append(matches, sheet)
		}
	}

	return matches, errs.ErrorOrNil()
}

// GradeTarget is what one grade file resolves to in a workbook.
type GradeTarget struct {
	Label      string // from the file name
	Target     string // after aliases
	Resolution grade.Resolution
	Sheets     []string
}

// MatchGradeFile extracts the grade label of file, applies aliases and finds
// the sheets of wb it fills. An ignored grade matches nothing.
func MatchGradeFile(wb SheetReader, file string, aliases grade.Aliases) (GradeTarget, error) {
	gt := GradeTarget{Label: grade.Extract(file)}
	gt.Target, gt.Resolution = aliases.Resolve(gt.Label)
	if gt.Resolution == grade.Ignored {
		return gt, nil
	}

	var err error
	gt.Sheets, err = FindMatches(wb, gt.Target)
	return gt, err
}
