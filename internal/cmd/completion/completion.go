// Package completion provides flag value completions shared by commands.
package completion

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/output"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
)

// Formats completes --format values.
func Formats(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(output.FormatTable) + "\taligned columns",
		string(output.FormatWide) + "\ttable with every column",
		string(output.FormatJSON) + "\tmachine readable",
		string(output.FormatYAML) + "\tmachine readable",
	}, cobra.ShellCompDirectiveNoFileComp
}

// Statuses completes a comma-separated list of reconciliation statuses,
// leaving out the ones already typed.
func Statuses(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	typed := strings.Split(toComplete, ",")
	prefix := strings.Join(typed[:len(typed)-1], ",")
	if prefix != "" {
		prefix += ","
	}

	seen := make(map[string]bool, len(typed))
	for _, s := range typed {
		seen[s] = true
	}

	var out []string
	for _, s := range differ.Statuses() {
		if !seen[string(s)] {
			out = append(out, prefix+string(s))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// CatalogFiles restricts completion to JSON and YAML files.
func CatalogFiles(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// Register wires completions for flags a command defines. Missing flags are
// skipped so one call serves every command.
func Register(cmd *cobra.Command) {
	funcs := map[string]func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective){
		"format":  Formats,
		"only":    Statuses,
		"catalog": CatalogFiles,
		"ssp":     CatalogFiles,
		"out":     CatalogFiles,
	}
	for name, fn := range funcs {
		if cmd.Flags().Lookup(name) == nil && cmd.PersistentFlags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fn)
	}
}
