// Package scriptrun drives the executor end-to-end through rsc.io/script
// scripts: each script runs named statements from Scenarios and checks
// their printed QueryResult with the engine's stdout condition, following
// the statement sequence of executor's TestEndToEndScenarios through the
// CLI's script surface (SPEC_FULL.md §8).
package scriptrun

import (
	"context"
	"fmt"
	"io"
	"os"

	"rsc.io/script"

	"github.com/ninanguyen24/sqlcore/internal/executor"
)

// Run reads the script at path and executes it against db, registering a
// "stmt" command that looks up and runs one of the named scenarios
// (scenarios.go). Only the engine's default commands and conditions are
// available besides it.
func Run(ctx context.Context, db *executor.DBContext, path string, log io.Writer) error {
	engine := &script.Engine{
		Cmds:  script.DefaultCmds(),
		Conds: script.DefaultConds(),
	}
	engine.Cmds["stmt"] = stmtCmd(db)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scriptrun: read %s: %w", path, err)
	}

	state, err := script.NewState(ctx, os.TempDir(), os.Environ())
	if err != nil {
		return fmt.Errorf("scriptrun: new state: %w", err)
	}
	defer state.CloseAndWait(log)

	return engine.Run(state, path, data, log)
}

// stmtCmd adapts the named-scenario table (scenarios.go) into a
// script.Cmd: `stmt <name>` runs Scenarios[name] against db and writes its
// QueryResult to the script's stdout, so `stdout` assertions in the
// script file can check against spec.md §8's literal expected output.
func stmtCmd(db *executor.DBContext) script.Cmd {
	return script.Command(
		script.CmdUsage{
			Summary: "execute a named sqlcore statement scenario",
			Args:    "name",
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("stmt: want exactly one scenario name")
			}
			scenario, ok := Scenarios[args[0]]
			if !ok {
				return nil, fmt.Errorf("stmt: unknown scenario %q", args[0])
			}
			res, execErr := db.Execute(scenario)
			return func(*script.State) (stdout, stderr string, err error) {
				if execErr != nil {
					return "", execErr.Error(), nil
				}
				return res.String(), "", nil
			}, nil
		},
	)
}
