package main

import (
	"fmt"
	"os"

	"cubeproc/internal/config"
	"cubeproc/internal/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "cubeproc",
	Short: "Copies cube test results and test dates into an office format workbook",
	Long: `cubeproc reads concrete cube test results from grade files (one workbook per grade,
named like M20.xlsx or MORTAR_1_4.xlsx), copies each result row into the matching sheets of
an office format workbook and fills in the 7 and 28 day test dates from a calendar workbook.
The office format file itself is never modified; results go to <name>_Processed.xlsx.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if err := logger.Init(cfg.Log.Dir, cfg.Log.Level); err != nil {
			return err
		}
		logger.Info("Starting command", "command", cmd.Name())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.toml", "Path to the config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", "error", err)
		logger.Close()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
