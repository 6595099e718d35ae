package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/catalog"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/emoji"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/output"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/table"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

// NewSSPCommand creates the validate ssp subcommand.
func NewSSPCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "ssp <file>",
		Short: "Validate a system security plan",
		Long: `Validate checks that a plan holds one implemented requirement per
control, each with a unique uuid. Unknown implementation statuses and
malformed stored fingerprints are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := catalog.LoadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			result := reconciler.ValidateDocument(doc)
			app.Logger().Debug().
				Int("errors", len(result.Errors)).
				Int("warnings", len(result.Warnings)).
				Msg("Plan validated")

			format := output.DetectFormat(app.OutputFormat())
			if !format.IsTable() {
				if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if len(result.Errors)+len(result.Warnings) > 0 {
					if err := output.NewFormatter(format).Format(out, table.ValidationToTableData(result)); err != nil {
						return err
					}
				}
				marker := emoji.Success
				if !result.IsValid() {
					marker = emoji.Error
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", marker, result)
			}

			if !result.IsValid() {
				return &errors.ValidationError{Field: "ssp", Value: args[0], Message: result.String()}
			}
			return nil
		},
	}
}
