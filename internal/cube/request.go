package cube

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cubeproc/internal/excel"
	"cubeproc/internal/grade"

	"github.com/hashicorp/go-multierror"
)

// ErrMissingInput is wrapped by every validation failure of a Request.
var ErrMissingInput = errors.New("missing input")

// Mode selects which halves of a run are performed.
type Mode int

const (
	GradeOnly Mode = iota + 1
	DateOnly
	Both
)

func (m Mode) String() string {
	switch m {
	case GradeOnly:
		return "grade_only"
	case DateOnly:
		return "date_only"
	case Both:
		return "both"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Grades reports whether the mode copies grade file rows.
func (m Mode) Grades() bool {
	return m == GradeOnly || m == Both
}

// Dates reports whether the mode fills in test dates.
func (m Mode) Dates() bool {
	return m == DateOnly || m == Both
}

// ParseMode accepts "grade_only", "date_only", "both" and the short forms "grade" and "date".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grade_only", "grade", "grade-only":
		return GradeOnly, nil
	case "date_only", "date", "date-only":
		return DateOnly, nil
	case "both", "":
		return Both, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want grade_only, date_only or both)", s)
	}
}

// Request describes one run. Build it once and pass it by value.
type Request struct {
	GradeFiles   []string
	TemplateFile string
	OutputFolder string
	CalendarFile string
	Mode         Mode
	Aliases      grade.Aliases
}

// Validate reports every input the mode needs but the request lacks.
func (r Request) Validate() error {
	var errs *multierror.Error

	if !r.Mode.Grades() && !r.Mode.Dates() {
		errs = multierror.Append(errs, fmt.Errorf("%w: processing mode", ErrMissingInput))
	}
	if r.Mode.Grades() && len(r.GradeFiles) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("%w: grade files are required for grade processing", ErrMissingInput))
	}
	if r.Mode.Dates() && strings.TrimSpace(r.CalendarFile) == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: calendar file is required for date processing", ErrMissingInput))
	}
	if strings.TrimSpace(r.TemplateFile) == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: office format file", ErrMissingInput))
	}
	if strings.TrimSpace(r.OutputFolder) == "" {
		errs = multierror.Append(errs, fmt.Errorf("%w: output folder", ErrMissingInput))
	}

	return errs.ErrorOrNil()
}

// OutputPath is where a run over template saves its result. The name carries
// no timestamp, so a rerun replaces the previous result.
func OutputPath(template, outputFolder string) string {
	return filepath.Join(outputFolder, excel.BaseName(template)+"_Processed.xlsx")
}
