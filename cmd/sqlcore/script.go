package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninanguyen24/sqlcore/internal/config"
	"github.com/ninanguyen24/sqlcore/internal/executor"
	"github.com/ninanguyen24/sqlcore/internal/scriptrun"
)

var scriptCmd = &cobra.Command{
	Use:   "script <path>",
	Short: "Run an rsc.io/script end-to-end scenario file against a fresh database",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	db, err := executor.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Logger.Close()

	return scriptrun.Run(context.Background(), db, args[0], cmd.OutOrStdout())
}
