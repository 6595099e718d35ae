// Package flatten provides the flatten command.
package flatten

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/catalog"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/emoji"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/output"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/table"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/fingerprint"
)

// Result is the structured output of the flatten command.
type Result struct {
	Controls     []catalogs.Control `json:"controls"`
	Fingerprints map[string]string  `json:"fingerprints,omitempty"`
	Warnings     []errors.Warning   `json:"warnings,omitempty"`
}

// NewCommand creates the flatten command.
func NewCommand(app application.Application) *cobra.Command {
	var (
		withFingerprints bool
		controlID        string
	)

	cmd := &cobra.Command{
		Use:     "flatten <catalog>",
		GroupID: "core",
		Short:   "List a catalog's controls in declaration order",
		Long: `Flatten walks a catalog's groups and controls depth-first and lists every
control, enhancements included, with its family and parent.

Controls without an id, and repeated ids, are skipped with a warning.
With --control only the named control is listed; an unknown id is an error.`,
		Example: `  sspmerge flatten NIST_SP-800-53_rev5_catalog.json
  sspmerge flatten catalog.yaml -o json --fingerprints
  sspmerge flatten catalog.json --control "AC-2(1)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			controls, warnings := client.Flatten(cat)
			if controlID != "" {
				ctrl, err := catalogs.Lookup(controls, controlID)
				if err != nil {
					return err
				}
				controls = []catalogs.Control{*ctrl}
			}

			result := Result{Controls: controls, Warnings: warnings}
			if withFingerprints {
				result.Fingerprints = make(map[string]string, len(controls))
				for i := range controls {
					result.Fingerprints[controls[i].ID] = fingerprint.Compute(&controls[i])
				}
			}

			app.Logger().Debug().
				Int("controls", len(controls)).
				Int("warnings", len(warnings)).
				Msg("Catalog flattened")

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)
			if !format.IsTable() {
				return formatter.Format(cmd.OutOrStdout(), result)
			}

			if err := formatter.Format(cmd.OutOrStdout(), table.ControlsToTableData(controls, format == output.FormatWide)); err != nil {
				return err
			}
			for _, w := range warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", emoji.Warning, w)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%d controls\n", len(controls))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withFingerprints, "fingerprints", false, "include each control's fingerprint in structured output")
	cmd.Flags().StringVar(&controlID, "control", "", "list only the control with this id")

	return cmd
}
