package cube

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cubeproc/internal/calendar"
	"cubeproc/internal/excel"
	"cubeproc/internal/grade"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// ErrOutputIsTemplate is returned when the result file would overwrite the template.
var ErrOutputIsTemplate = errors.New("output file would replace the office format file")

// Result is the outcome of one run.
type Result struct {
	RunID           string
	OutputPath      string
	RowsWritten     int
	SheetsAnnotated int
	Events          []Event
	// Errors holds the failures that were skipped over: unreadable grade
	// files, sheets that could not be written. Nil when there were none.
	Errors error
}

// Operations is the total shown to the user when a run completes.
func (r *Result) Operations() int {
	return r.RowsWritten + r.SheetsAnnotated
}

type Option func(*Processor)

// WithEvents streams every event to ch while the run is in progress.
// The caller must keep receiving from ch until Run returns.
func WithEvents(ch chan<- Event) Option {
	return func(p *Processor) {
		p.events = ch
	}
}

// Processor runs requests. A Processor is not safe for concurrent runs.
type Processor struct {
	events chan<- Event
}

func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run copies the template to the output folder, fills the copy from the
// request's grade files and calendar, and saves it.
//
// Failures of a single grade file or sheet are logged and skipped. Missing
// inputs, an unavailable calendar in a date mode and failures to create or
// save the result abort the run; the result then reports zero operations and
// the error is returned.
func (p *Processor) Run(req Request) (result *Result, err error) {
	result = &Result{RunID: uuid.NewString()}
	journal := NewJournal(result.RunID, p.events)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
			journal.Errorf("ERROR: %v", err)
		}
		if err != nil {
			result.RowsWritten = 0
			result.SheetsAnnotated = 0
		}
		result.Events = journal.Events()
	}()

	err = p.run(req, result, journal)
	return result, err
}

func (p *Processor) run(req Request, result *Result, journal *Journal) error {
	journal.Progress(0, "Processing mode: %s", req.Mode)

	if err := req.Validate(); err != nil {
		journal.Errorf("Cannot start: %v", err)
		return err
	}

	var index calendar.Index
	if req.Mode.Dates() {
		var err error
		index, err = calendar.Load(req.CalendarFile)
		if err == nil && len(index) == 0 {
			err = fmt.Errorf("calendar %s has no dates: %w", req.CalendarFile, calendar.ErrNotAvailable)
		}
		if err != nil {
			journal.With("file", req.CalendarFile).Errorf("Calendar load error: %v", err)
			journal.Errorf("Cannot proceed without calendar file")
			return err
		}
		journal.Progress(0.1, "Calendar loaded: %d dates", len(index))
	}

	outPath := OutputPath(req.TemplateFile, req.OutputFolder)
	result.OutputPath = outPath
	if same, _ := samePath(outPath, req.TemplateFile); same {
		journal.Errorf("ERROR: %v", ErrOutputIsTemplate)
		return fmt.Errorf("%s: %w", outPath, ErrOutputIsTemplate)
	}
	if err := os.MkdirAll(req.OutputFolder, 0755); err != nil {
		journal.Errorf("ERROR: cannot create output folder: %v", err)
		return fmt.Errorf("create output folder: %w", err)
	}

	dst, err := excel.OpenCopy(req.TemplateFile, outPath)
	if err != nil {
		journal.Errorf("ERROR: %v", err)
		return fmt.Errorf("prepare result workbook: %w", err)
	}
	defer dst.Close()

	var errs *multierror.Error

	if req.Mode.Grades() {
		journal.Progress(0.2, "--- GRADE PROCESSING ---")
		for i, file := range req.GradeFiles {
			written, err := processGradeFile(dst, file, req.Aliases, journal)
			if err != nil {
				// A file that failed part way counts for nothing, whatever it already wrote.
				errs = multierror.Append(errs, err)
			}
			result.RowsWritten += written
			journal.Progress(0.2+0.5*float64(i+1)/float64(len(req.GradeFiles)), "Grade files done: %d/%d", i+1, len(req.GradeFiles))
		}
	}

	if req.Mode.Dates() {
		journal.Progress(0.75, "--- DATE PROCESSING ---")
		updated, err := Annotate(dst, index, journal.With("file", filepath.Base(outPath)))
		result.SheetsAnnotated = updated
		if err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := dst.Save(); err != nil {
		journal.Errorf("ERROR: save %s: %v", outPath, err)
		return fmt.Errorf("save %s: %w", outPath, err)
	}

	result.Errors = errs.ErrorOrNil()
	journal.Progress(1, "SAVED: %s", outPath)
	return nil
}

// processGradeFile copies one grade file's rows into the matching sheets of dst.
func processGradeFile(dst Destination, file string, aliases grade.Aliases, journal *Journal) (int, error) {
	name := filepath.Base(file)
	journal = journal.With("file", name)
	journal.Infof("Processing: %s", name)

	src, err := excel.OpenFile(file)
	if err != nil {
		journal.Errorf("Cannot read %s: %v", name, err)
		return 0, fmt.Errorf("grade file %s: %w", file, err)
	}
	defer src.Close()

	match, matchErr := MatchGradeFile(dst, file, aliases)
	journal.Infof("Looking for grade: %s", match.Label)
	switch match.Resolution {
	case grade.Aliased:
		journal.Infof("Alias: %s -> %s", match.Label, match.Target)
	case grade.Ignored:
		journal.Warnf("Grade %s is marked as ignored, skipping %s", match.Label, name)
		return 0, nil
	}

	rows, err := ReadSourceRows(src, src.ActiveSheet())
	if err != nil {
		journal.Errorf("Cannot read rows of %s: %v", name, err)
		return 0, fmt.Errorf("grade file %s: %w", file, err)
	}
	journal.Infof("Data rows: %d", len(rows))

	if matchErr != nil {
		journal.Warnf("Some sheets could not be checked: %v", matchErr)
	}
	matches := match.Sheets
	for _, sheet := range matches {
		journal.With("sheet", sheet).Infof("  Matched sheet: %s", sheet)
	}
	journal.Infof("Total matching sheets: %d", len(matches))

	if len(matches) == 0 {
		journal.Warnf("No sheets found with marker '%s'", match.Target)
		return 0, nil
	}

	written, err := Distribute(dst, rows, matches, journal)
	if err != nil {
		return 0, fmt.Errorf("grade file %s: %w", file, err)
	}
	return written, nil
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
