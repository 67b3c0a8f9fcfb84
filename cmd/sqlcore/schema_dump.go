package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninanguyen24/sqlcore/internal/config"
	"github.com/ninanguyen24/sqlcore/internal/executor"
	"github.com/ninanguyen24/sqlcore/internal/schemaexport"
)

var schemaDumpOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the catalog",
}

var schemaDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export every user table's columns and indices as TOML",
	RunE:  runSchemaDump,
}

func init() {
	schemaDumpCmd.Flags().StringVar(&schemaDumpOut, "out", "", "write to this file instead of stdout")
	schemaCmd.AddCommand(schemaDumpCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runSchemaDump(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	db, err := executor.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Logger.Close()

	doc, err := schemaexport.Build(db.Catalog)
	if err != nil {
		return err
	}
	text, err := schemaexport.Render(doc)
	if err != nil {
		return err
	}

	if schemaDumpOut == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(schemaDumpOut, []byte(text), 0o644)
}
