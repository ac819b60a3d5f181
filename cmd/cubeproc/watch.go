package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"cubeproc/internal/logger"
	"cubeproc/internal/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run once, then run again whenever a grade file, the calendar or the office format file changes",
	RunE:  cliCmdWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addInputFlags(watchCmd)
}

func cliCmdWatch(cmd *cobra.Command, args []string) error {
	in, err := resolveInputs(cmd)
	if err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var dirs []string
	if in.gradeDir != "" {
		dirs = append(dirs, in.gradeDir)
	}
	files := append([]string{in.req.TemplateFile, in.req.CalendarFile}, in.req.GradeFiles...)

	w, err := watch.New(files, dirs, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond)
	if err != nil {
		return err
	}
	w.Ignore(in.outputPath())

	execute(in.req, true)
	fmt.Println("\nWatching for changes, press Ctrl+C to stop.")

	err = w.Run(ctx, func(changed []string) {
		fmt.Printf("\n%s: %d file(s) changed\n", time.Now().Format("15:04:05"), len(changed))
		for _, c := range changed {
			fmt.Println("   ", c)
		}
		if err := in.refreshGrades(); err != nil {
			logger.Error("Failed to list grade files", "error", err)
			fmt.Printf("❌ %v\n", err)
			return
		}
		execute(in.req, true)
	})

	logger.Info("Stopped watching")
	fmt.Println("\nStopped watching.")
	return err
}
