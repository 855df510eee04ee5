package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/preflight/internal/eventlog"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Key      string // optional - filter to a specific prepare key
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the initialization event log",
		Long: `Read the durable event log and print every start/end
notification in append order, optionally filtered to one prepare key.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "preflight.db", "path to the event log database")
	cmd.Flags().StringVar(&opts.Key, "key", "", "filter to one prepare key")

	return cmd
}

func showTrace(cmd *cobra.Command, opts *TraceOptions) error {
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "event log database not found", err)
	}

	log, err := eventlog.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening event log", err)
	}
	defer log.Close()

	ctx := cmd.Context()
	var events []eventlog.Event
	if opts.Key != "" {
		events, err = log.ReadKey(ctx, opts.Key)
	} else {
		events, err = log.ReadAll(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "reading event log", err)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.PrintJSON(events)
	}

	for _, ev := range events {
		phase := "start"
		if ev.Note.Complete {
			phase = "end"
		}
		pass := "self_init"
		if ev.Note.PreparePass {
			pass = "prepare"
		}
		out.Printf("%6d  %s  %-9s %-5s %s\n", ev.Seq, ev.RecordedAt, pass, phase, ev.Note.Key)
	}
	out.Printf("%d event(s)\n", len(events))
	return nil
}
