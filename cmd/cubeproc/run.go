package main

import (
	"os"

	"cubeproc/internal/cube"
	"cubeproc/internal/logger"
	"cubeproc/internal/ui"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process grade files and/or test dates into a copy of the office format file",
	Long: `The run command copies the office format file to <output>/<name>_Processed.xlsx and fills the copy:
grade files are matched to sheets by the marker in B12 and their rows written to rows 25 and 27,
and every sheet's casting date in C17 is looked up in the calendar to fill C18 and F18.
Inputs not given as flags come from the config file, then from the previous run.`,
	RunE: cliCmdRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addInputFlags(runCmd)
	runCmd.Flags().Bool("plain", false, "Print the run log as plain lines instead of the interactive view")
}

func cliCmdRun(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		logger.Close()
		os.Exit(1)
	}

	plain, _ := cmd.Flags().GetBool("plain")
	if _, err := execute(in.req, plain || cfg.UI.Plain); err != nil {
		logger.Error("Run failed", "error", err)
		logger.Close()
		os.Exit(1)
	}
	return nil
}

// execute performs one run with the interactive view or plain output.
func execute(req cube.Request, plain bool) (*cube.Result, error) {
	runner := func(events chan<- cube.Event) (*cube.Result, error) {
		return cube.New(cube.WithEvents(events)).Run(req)
	}
	if plain {
		return ui.RunPlain(os.Stdout, runner)
	}
	return ui.Run(runner, ui.Options{LogLines: cfg.UI.LogLines})
}
