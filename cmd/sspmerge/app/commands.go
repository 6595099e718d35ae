package app

import (
	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/completion"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/flatten"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/reconcile"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/serve"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/validate"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/sspmerge/cmd/version"
	flagcomp "github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/completion"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(flatten.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(serve.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
	rootCmd.AddCommand(completion.NewCommand())

	flagcomp.Register(rootCmd)
	for _, cmd := range rootCmd.Commands() {
		flagcomp.Register(cmd)
	}
}
