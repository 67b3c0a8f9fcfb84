package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ninanguyen24/sqlcore/internal/ast"
	"github.com/ninanguyen24/sqlcore/internal/config"
	"github.com/ninanguyen24/sqlcore/internal/executor"
)

var dropTableForce bool

var dropTableCmd = &cobra.Command{
	Use:   "drop-table <name>",
	Short: "Drop a table and every index defined on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runDropTable,
}

func init() {
	dropTableCmd.Flags().BoolVar(&dropTableForce, "force", false, "skip the confirmation prompt")
	rootCmd.AddCommand(dropTableCmd)
}

func runDropTable(cmd *cobra.Command, args []string) error {
	table := args[0]

	if !dropTableForce {
		confirmed := false
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Drop table %q and all of its indices?", table)).
					Affirmative("Drop it").
					Negative("Cancel").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("cancelled")
			return nil
		}
	}

	cfg := config.Get()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	db, err := executor.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Logger.Close()

	res, err := db.Execute(&ast.DropStatement{Kind: ast.Table, Table: table})
	if err != nil {
		return err
	}
	fmt.Println(res.String())
	return nil
}
