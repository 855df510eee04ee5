package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/preflight/internal/eventlog"
	"github.com/roach88/preflight/internal/harness"
	"github.com/roach88/preflight/internal/state"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string // optional - append notifications to an event log
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run an initialization scenario",
		Long: `Run a scenario file: load its component manifest, fire its
trigger events through the engine, and check its assertions.

With --db, every start/end notification is appended to the event log
database for later inspection with the trace command.

Exits 0 when every assertion holds, 1 on assertion failure, 2 on a
command error (unreadable scenario or manifest).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "append notifications to this event log database")

	return cmd
}

func runScenario(cmd *cobra.Command, opts *RunOptions, path string) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading scenario", err)
	}

	var runOpts []harness.RunOption
	if opts.Database != "" {
		log, err := eventlog.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening event log", err)
		}
		defer log.Close()
		runOpts = append(runOpts, harness.WithSink(func(inner state.Dispatcher) state.Dispatcher {
			return eventlog.NewDispatcher(inner, log, nil)
		}))
	}

	result, err := harness.RunAndCheck(scenario, runOpts...)
	if result == nil && err != nil {
		return WrapExitError(ExitCommandError, "running scenario", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if printErr := out.PrintJSON(result); printErr != nil {
			return WrapExitError(ExitCommandError, "writing output", printErr)
		}
	} else {
		out.Printf("scenario: %s\n", result.ScenarioName)
		for _, tr := range result.Triggers {
			status := "ok"
			if tr.Error != "" {
				status = tr.ErrorCode
				if status == "" {
					status = "error"
				}
			}
			out.Printf("  %-20s %-20s %s\n", tr.Component, tr.Caller, status)
		}
		out.Printf("notifications: %d\n", len(result.Trace))
	}

	if err != nil {
		return WrapExitError(ExitFailure, "scenario failed", err)
	}
	return nil
}
