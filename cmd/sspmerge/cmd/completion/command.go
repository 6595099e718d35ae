// Package completion provides the completion command.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand creates the completion command. It replaces cobra's generated
// one so the scripts and help text name sspmerge.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate the autocompletion script for the given shell.

  bash:        source <(sspmerge completion bash)
  zsh:         sspmerge completion zsh > "${fpath[1]}/_sspmerge"
  fish:        sspmerge completion fish > ~/.config/fish/completions/sspmerge.fish
  powershell:  sspmerge completion powershell | Out-String | Invoke-Expression

Flags such as --format and --only complete their values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell: %s", args[0])
		},
	}
	return cmd
}
