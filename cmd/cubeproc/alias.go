package main

import (
	"context"
	"fmt"
	"path/filepath"

	"cubeproc/internal/cube"
	"cubeproc/internal/excel"
	"cubeproc/internal/grade"
	"cubeproc/internal/logger"
	"cubeproc/internal/mapping"

	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Interactively map grade labels that match no sheet to an office format marker",
	RunE:  cliCmdAlias,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask Gemini to propose aliases for grade labels that match no sheet",
	Long: `The suggest command sends the unmatched grade labels and the office format markers to Gemini and
adds every confident suggestion to the alias file. Labels that already have an alias are left alone.
The API key is read from the environment variable named in the [ai] config section.`,
	RunE: cliCmdSuggest,
}

func init() {
	rootCmd.AddCommand(aliasCmd)
	rootCmd.AddCommand(suggestCmd)
	addInputFlags(aliasCmd)
	addInputFlags(suggestCmd)
	suggestCmd.Flags().Bool("dry-run", false, "Print suggestions without saving them")
}

// labelsAndMarkers returns the grade labels of the run's grade files and the
// distinct markers of the office format file.
func labelsAndMarkers(in *inputs) ([]string, []string, error) {
	if in.req.TemplateFile == "" {
		return nil, nil, fmt.Errorf("%w: office format file", cube.ErrMissingInput)
	}
	if len(in.req.GradeFiles) == 0 {
		return nil, nil, fmt.Errorf("%w: grade files", cube.ErrMissingInput)
	}
	sheetMarkers, err := excel.ScanMarkers(in.req.TemplateFile, cube.MarkerRow, cube.MarkerCol)
	if err != nil {
		return nil, nil, fmt.Errorf("read office format file: %w", err)
	}
	return mapping.GradeLabels(in.req.GradeFiles), excel.UniqueMarkers(sheetMarkers, grade.Normalize), nil
}

func aliasesPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("aliases"); path != "" {
		return path
	}
	return cfg.Run.AliasesFile
}

func cliCmdAlias(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	labels, markers, err := labelsAndMarkers(in)
	if err != nil {
		return err
	}

	// labels already aliased stay in the list so they can be changed
	unmatched := mapping.Unmatched(labels, markers, nil)
	if len(unmatched) == 0 {
		fmt.Println("✓ Every grade label matches an office format marker, nothing to map.")
		return nil
	}

	path := aliasesPath(cmd)
	fmt.Printf("Grade labels without a matching sheet: %d\n", len(unmatched))
	fmt.Printf("Office format markers: %d\n", len(markers))
	fmt.Printf("Alias file: %s\n\n", path)

	saved, err := mapping.RunAliasTUI(unmatched, markers, in.aliases, mapping.TUIOptions{RowsPerPage: cfg.UI.LogLines})
	if err != nil {
		return err
	}
	if !saved {
		fmt.Println("Aliases not saved.")
		return nil
	}
	if err := in.aliases.SaveToFile(path); err != nil {
		return fmt.Errorf("failed to save aliases: %w", err)
	}

	logger.Info("Saved grade aliases", "path", path, "count", len(in.aliases.Aliases))
	fmt.Printf("✓ Aliases saved to: %s\n", path)
	return nil
}

func cliCmdSuggest(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	labels, markers, err := labelsAndMarkers(in)
	if err != nil {
		return err
	}

	unmatched := mapping.Unmatched(labels, markers, in.req.Aliases)
	if len(unmatched) == 0 {
		fmt.Println("✓ No unmatched grade labels.")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	suggester, err := mapping.NewSuggester(ctx, mapping.APIKey(cfg.AI.APIKeyEnv), mapping.SuggesterOptions{
		Model:         cfg.AI.Model,
		MinConfidence: cfg.AI.MinConfidence,
		DebugDir:      filepath.Join(cfg.Log.Dir, "ai_debug"),
	})
	if err != nil {
		return err
	}
	defer suggester.Close()

	fmt.Printf("Asking %s about %d label(s)...\n", cfg.AI.Model, len(unmatched))
	suggestions, err := suggester.Suggest(ctx, unmatched, markers)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Println("No confident suggestions.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Printf("   %s → %s (%.2f)\n", s.GradeLabel, s.MarkerLabel, s.Confidence)
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return nil
	}
	added := in.aliases.Merge(suggestions)
	path := aliasesPath(cmd)
	if err := in.aliases.SaveToFile(path); err != nil {
		return fmt.Errorf("failed to save aliases: %w", err)
	}
	fmt.Printf("✓ Added %d alias(es) to %s\n", added, path)
	return nil
}
