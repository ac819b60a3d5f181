package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cubeproc/internal/calendar"
	"cubeproc/internal/cube"
	"cubeproc/internal/excel"
	"cubeproc/internal/grade"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Shows which sheets each grade file would fill. Nothing is written.",
	Long: `The check command lists the marker of every office format sheet, the grade label of every grade
file with the sheets it matches, and whether the calendar can be loaded. It writes no files.`,
	RunE: cliCmdCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addInputFlags(checkCmd)
}

func cliCmdCheck(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	req := in.req

	if req.TemplateFile == "" {
		return fmt.Errorf("%w: office format file", cube.ErrMissingInput)
	}
	markers, err := excel.ScanMarkers(req.TemplateFile, cube.MarkerRow, cube.MarkerCol)
	if err != nil {
		return fmt.Errorf("read office format file: %w", err)
	}

	fmt.Printf("Office format: %s (%d marked sheets)\n", req.TemplateFile, len(markers))
	for _, m := range markers {
		fmt.Printf("   %-20s %s\n", m.Sheet, m.Marker)
	}

	if req.Mode.Grades() {
		template, err := excel.OpenFile(req.TemplateFile)
		if err != nil {
			return fmt.Errorf("read office format file: %w", err)
		}
		defer template.Close()

		fmt.Printf("\nGrade files (%d):\n", len(req.GradeFiles))
		for _, file := range req.GradeFiles {
			printGradeCheck(os.Stdout, template, file, req.Aliases)
		}
	}

	if req.Mode.Dates() {
		fmt.Println()
		index, err := calendar.Load(req.CalendarFile)
		if err != nil {
			fmt.Printf("❌ Calendar: %v\n", err)
		} else {
			fmt.Printf("✓ Calendar: %d casting dates in %s\n", len(index), req.CalendarFile)
		}
	}

	fmt.Printf("\nResult would be saved to: %s\n", in.outputPath())
	return nil
}

func printGradeCheck(w io.Writer, template cube.SheetReader, file string, aliases grade.Aliases) {
	name := filepath.Base(file)
	match, err := cube.MatchGradeFile(template, file, aliases)

	label := match.Label
	switch match.Resolution {
	case grade.Ignored:
		fmt.Fprintf(w, "   -  %-28s %-8s ignored by alias\n", name, label)
		return
	case grade.Aliased:
		label = fmt.Sprintf("%s -> %s", label, match.Target)
	}

	if err != nil {
		fmt.Fprintf(w, "   !  %-28s %-8s some sheets unreadable: %v\n", name, label, err)
	}
	if len(match.Sheets) == 0 {
		fmt.Fprintf(w, "   ❌ %-28s %-8s no matching sheets\n", name, label)
		return
	}
	fmt.Fprintf(w, "   ✓  %-28s %-8s %d sheet(s): %s\n", name, label, len(match.Sheets), strings.Join(match.Sheets, ", "))
}
