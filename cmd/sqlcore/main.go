package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ninanguyen24/sqlcore/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sqlcore",
	Short: "A miniature relational execution core: catalog, DDL, DML, and a B+Tree index",
	Long: `sqlcore drives the execution core of a small relational database: it
maintains self-describing catalogs, executes CREATE/DROP TABLE and INDEX,
runs INSERT/DELETE/SELECT through a tiny evaluation plan, and maintains a
unique B+Tree secondary index.

This binary is the ambient entrypoint around that core; the SQL parser
itself is not part of this repo (statements are built directly as ast
values by the demo command and the script harness).`,
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "sqlcore: config:", err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sqlcore:", err)
		os.Exit(1)
	}
}
