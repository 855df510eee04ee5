package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/preflight/internal/manifest"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// validateSummary is the JSON output shape of the validate command.
type validateSummary struct {
	Manifest   string             `json:"manifest"`
	Components []componentSummary `json:"components"`
}

type componentSummary struct {
	Name       string   `json:"name"`
	ID         string   `json:"id"`
	Props      []string `json:"props,omitempty"`
	InitSelf   string   `json:"init_self"`
	AllowLazy  bool     `json:"allow_lazy"`
	Primary    bool     `json:"primary"`
	Restricted bool     `json:"restricted"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <manifest.cue>",
		Short: "Validate a component manifest",
		Long: `Compile a CUE component manifest and report the components it
declares. Exits 1 if the manifest does not compile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateManifest(cmd, opts, args[0])
		},
	}

	return cmd
}

func validateManifest(cmd *cobra.Command, opts *ValidateOptions, path string) error {
	components, err := manifest.Load(path)
	if err != nil {
		return WrapExitError(ExitFailure, "manifest invalid", err)
	}

	summary := validateSummary{Manifest: path}
	for _, c := range components {
		summary.Components = append(summary.Components, componentSummary{
			Name:       c.Name,
			ID:         c.ID,
			Props:      c.Props,
			InitSelf:   c.InitSelf.String(),
			AllowLazy:  c.AllowLazy,
			Primary:    c.Primary != nil,
			Restricted: c.Restricted != nil,
		})
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.PrintJSON(summary)
	}

	out.Printf("manifest %s: %d component(s)\n", path, len(components))
	for _, c := range summary.Components {
		out.Printf("  %-20s id=%s init_self=%s allow_lazy=%t primary=%t restricted=%t\n",
			c.Name, c.ID, c.InitSelf, c.AllowLazy, c.Primary, c.Restricted)
	}
	return nil
}
