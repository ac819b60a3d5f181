package main

import (
	"fmt"
	"os"
	"path/filepath"

	"cubeproc/internal/cube"
	"cubeproc/internal/excel"
	"cubeproc/internal/logger"
	"cubeproc/internal/mapping"
	"cubeproc/internal/settings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

// addInputFlags registers the flags every command that builds a Request shares.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("template", "t", "", "Office format workbook")
	cmd.Flags().StringP("output", "o", "", "Folder the processed workbook is written to")
	cmd.Flags().StringP("calendar", "d", "", "Calendar workbook with casting dates and their 7/28 day test dates")
	cmd.Flags().StringP("mode", "m", "", "grade_only, date_only or both")
	cmd.Flags().StringSliceP("grades", "g", nil, "Grade files, comma separated")
	cmd.Flags().String("grade-dir", "", "Use every .xlsx file in this folder as a grade file")
	cmd.Flags().String("aliases", "", "Grade alias file")
}

// inputs is a resolved set of run inputs plus where they came from.
type inputs struct {
	req      cube.Request
	gradeDir string
	aliases  *mapping.AliasConfig
	store    settings.Store
}

// resolveInputs builds a Request from flags, then the config file, then the
// preferences remembered from the last run.
func resolveInputs(cmd *cobra.Command) (*inputs, error) {
	store, err := settings.Open(cfg.Settings.Backend, cfg.Settings.Path)
	if err != nil {
		return nil, err
	}
	prefs, err := store.Load()
	if err != nil {
		logger.Warn("Ignoring unreadable settings", "path", store.Path(), "error", err)
		prefs = settings.Preferences{}
	}

	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	first := func(values ...string) string {
		for _, v := range values {
			if v != "" {
				return v
			}
		}
		return ""
	}

	mode, err := cube.ParseMode(first(flag("mode"), cfg.Run.Mode))
	if err != nil {
		return nil, err
	}

	in := &inputs{store: store}
	in.req = cube.Request{
		TemplateFile: first(flag("template"), cfg.Paths.TemplateFile),
		OutputFolder: first(flag("output"), cfg.Paths.OutputFolder, prefs.OutputFolder),
		CalendarFile: first(flag("calendar"), cfg.Paths.CalendarFile, prefs.CalendarFile),
		Mode:         mode,
	}

	grades, _ := cmd.Flags().GetStringSlice("grades")
	switch {
	case len(grades) > 0:
		in.req.GradeFiles = grades
	case flag("grade-dir") != "":
		in.gradeDir = flag("grade-dir")
	case isDir(cfg.Paths.GradeDirectory):
		in.gradeDir = cfg.Paths.GradeDirectory
	default:
		in.req.GradeFiles = prefs.GradeFiles
	}
	if err := in.refreshGrades(); err != nil {
		return nil, err
	}

	in.aliases, err = mapping.LoadOrEmpty(first(flag("aliases"), cfg.Run.AliasesFile))
	if err != nil {
		return nil, err
	}
	in.req.Aliases = in.aliases.Table()

	logger.Info("Resolved run inputs",
		"mode", in.req.Mode.String(),
		"template", in.req.TemplateFile,
		"output", in.req.OutputFolder,
		"calendar", in.req.CalendarFile,
		"grade_files", len(in.req.GradeFiles),
		"aliases", len(in.req.Aliases))
	return in, nil
}

// refreshGrades re-lists the grade directory, if one is in use. Earlier
// results written into that folder are not grade files.
func (in *inputs) refreshGrades() error {
	if in.gradeDir == "" {
		return nil
	}
	files, err := excel.GetXlsxFiles(in.gradeDir)
	if err != nil {
		return err
	}
	output, _ := filepath.Abs(in.outputPath())
	var grades []string
	for _, f := range files {
		if abs, _ := filepath.Abs(f); abs == output {
			continue
		}
		grades = append(grades, f)
	}
	in.req.GradeFiles = grades
	return nil
}

func (in *inputs) outputPath() string {
	return cube.OutputPath(in.req.TemplateFile, in.req.OutputFolder)
}

// validate prints every missing input and remembers the inputs once they
// are complete. The office format file is never remembered.
func (in *inputs) validate() error {
	if err := in.req.Validate(); err != nil {
		fmt.Println("Cannot start processing:")
		printErrors(err)
		return err
	}

	prefs := settings.Preferences{
		GradeFiles:   in.req.GradeFiles,
		OutputFolder: in.req.OutputFolder,
		CalendarFile: in.req.CalendarFile,
	}
	if err := in.store.Save(prefs); err != nil {
		logger.Warn("Failed to save settings", "path", in.store.Path(), "error", err)
	}
	return nil
}

func printErrors(err error) {
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			fmt.Println("  ❌", e)
		}
		return
	}
	fmt.Println("  ❌", err)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
