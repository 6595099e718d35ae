// Package version provides the version command.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/output"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"
)

// Info is the structured version output.
type Info struct {
	Version      string `json:"version"`
	Commit       string `json:"commit"`
	Date         string `json:"date"`
	BuiltBy      string `json:"built_by"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	OSCALVersion string `json:"oscal_version"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version:      app.Version(),
				Commit:       app.Commit(),
				Date:         app.Date(),
				BuiltBy:      app.BuiltBy(),
				GoVersion:    runtime.Version(),
				Platform:     runtime.GOOS + "/" + runtime.GOARCH,
				OSCALVersion: constants.DefaultOSCALVersion,
			}

			// Plain text unless structured output was asked for explicitly
			format := output.Format(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "sspmerge version %s\n", info.Version)
			_, _ = fmt.Fprintf(out, "commit: %s\n", info.Commit)
			_, _ = fmt.Fprintf(out, "built: %s\n", info.Date)
			_, _ = fmt.Fprintf(out, "built by: %s\n", info.BuiltBy)
			_, _ = fmt.Fprintf(out, "go version: %s\n", info.GoVersion)
			_, _ = fmt.Fprintf(out, "platform: %s\n", info.Platform)
			_, _ = fmt.Fprintf(out, "oscal: %s\n", info.OSCALVersion)
			return nil
		},
	}
}
