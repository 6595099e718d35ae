// Package validate provides the validate command and its subcommands.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
)

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate [resource]",
		GroupID: "core",
		Short:   "Validate catalogs and system security plans",
		Long: `Validate checks inputs before a reconciliation run.

Available subcommands:
  catalog     - schema check and flattening of a control catalog
  ssp         - requirement invariants of a system security plan`,
		Example: `  sspmerge validate catalog NIST_SP-800-53_rev5_catalog.json
  sspmerge validate ssp ssp.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown resource: %s", args[0])
		},
	}

	cmd.AddCommand(NewCatalogCommand(app))
	cmd.AddCommand(NewSSPCommand(app))

	return cmd
}
