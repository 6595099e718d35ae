// Package reconcile provides the reconcile command.
package reconcile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	oscalreports "github.com/keekar2022/OSCAL-Reports-sub003"
	"github.com/keekar2022/OSCAL-Reports-sub003/cmd/application"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/catalog"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/emoji"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/output"
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/table"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/errors"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

// ErrChangesDetected is returned with --exit-code when the catalog moved.
var ErrChangesDetected = errors.New("catalog changes detected")

// Flags holds the reconcile command flags.
type Flags struct {
	Catalog      string
	SSP          string
	Out          string
	KeepRemoved  bool
	Concurrency  int
	NoProvenance bool
	Only         []string
	ExitCode     bool
}

// NewCommand creates the reconcile command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "core",
		Short:   "Merge a catalog release into a system security plan",
		Long: `Reconcile merges a control catalog into a prior system security plan.

Catalog-owned fields of every implemented requirement are refreshed from the
catalog; status, narratives, responsible roles and evidence are preserved.
Without --ssp every catalog control is seeded as a new requirement.

Each control is reported as new, changed, unchanged or removed. Removed
requirements are dropped from the merged plan unless --keep-removed is set.`,
		Example: `  sspmerge reconcile --catalog NIST_SP-800-53_rev5_catalog.json --ssp ssp.json --out ssp.json
  sspmerge reconcile --catalog catalog.yaml                       # fresh plan, report only
  sspmerge reconcile --catalog catalog.json --ssp ssp.json --only changed,removed -o wide
  cat catalog.json | sspmerge reconcile --catalog - --ssp ssp.yaml --exit-code`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Catalog, "catalog", "c", "", "catalog file (JSON or YAML, - for stdin)")
	cmd.Flags().StringVarP(&flags.SSP, "ssp", "s", "", "prior system security plan (omit for a fresh start)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "write the merged plan here; provenance is written alongside")
	cmd.Flags().BoolVar(&flags.KeepRemoved, "keep-removed", false, "retain requirements whose control left the catalog")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "goroutines per run (0 = configured default)")
	cmd.Flags().BoolVar(&flags.NoProvenance, "no-provenance", false, "skip field provenance")
	cmd.Flags().StringSliceVar(&flags.Only, "only", nil, "report only these statuses: new, changed, unchanged, removed")
	cmd.Flags().BoolVar(&flags.ExitCode, "exit-code", false, "exit non-zero when any control is new, changed or removed")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	only, err := parseStatuses(flags.Only)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	cat, err := catalog.Load(flags.Catalog, cmd.InOrStdin())
	if err != nil {
		return err
	}
	prior, err := catalog.LoadDocument(flags.SSP, cmd.InOrStdin())
	if err != nil {
		return err
	}

	client, err := app.Client(clientOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	report, err := client.Reconcile(cmd.Context(), cat, prior)
	if err != nil {
		return err
	}

	if flags.Out != "" {
		if err := client.Save(report, flags.Out); err != nil {
			return err
		}
		app.Logger().Info().Str("path", flags.Out).Msg("Merged plan written")
	}

	if err := render(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.DetectFormat(string(format)), report, only); err != nil {
		return err
	}

	if flags.ExitCode && report.HasChanges() {
		return ErrChangesDetected
	}
	return nil
}

// clientOptions returns per-run overrides for flags the user actually set,
// so unset flags keep the configured defaults.
func clientOptions(cmd *cobra.Command, flags *Flags) []oscalreports.Option {
	var opts []oscalreports.Option
	if cmd.Flags().Changed("keep-removed") {
		opts = append(opts, oscalreports.WithKeepRemoved(flags.KeepRemoved))
	}
	if cmd.Flags().Changed("concurrency") {
		opts = append(opts, oscalreports.WithConcurrency(flags.Concurrency))
	}
	if flags.NoProvenance {
		opts = append(opts, oscalreports.WithProvenance(false))
	}
	return opts
}

func parseStatuses(values []string) ([]differ.Status, error) {
	out := make([]differ.Status, 0, len(values))
	for _, v := range values {
		s := differ.Status(v)
		switch s {
		case differ.StatusNew, differ.StatusChanged, differ.StatusUnchanged, differ.StatusRemoved:
			out = append(out, s)
		default:
			return nil, &errors.ValidationError{Field: "only", Value: v, Message: "must be one of new, changed, unchanged, removed"}
		}
	}
	return out, nil
}

// filtered returns a shallow copy of report restricted to statuses, in
// report order. Counts, warnings and the merged document are unaffected.
func filtered(report *reconciler.Report, statuses []differ.Status) *reconciler.Report {
	if len(statuses) == 0 {
		return report
	}
	keep := make(map[differ.Status]bool, len(statuses))
	for _, s := range statuses {
		keep[s] = true
	}
	out := *report
	out.Entries = make([]reconciler.Entry, 0, len(report.Entries))
	for _, e := range report.Entries {
		if keep[e.Status] {
			out.Entries = append(out.Entries, e)
		}
	}
	return &out
}

func render(stdout, stderr io.Writer, format output.Format, report *reconciler.Report, only []differ.Status) error {
	view := filtered(report, only)
	formatter := output.NewFormatter(format)

	if !format.IsTable() {
		return formatter.Format(stdout, view)
	}

	if len(view.Entries) > 0 {
		if err := formatter.Format(stdout, table.ReportToTableData(view, format == output.FormatWide)); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(stdout)
	}
	if err := formatter.Format(stdout, table.CountsToTableData(report.Counts)); err != nil {
		return err
	}

	if report.HasWarnings() {
		_, _ = fmt.Fprintf(stderr, "\n%s %d warnings\n", emoji.Warning, len(report.Warnings))
		if err := formatter.Format(stderr, table.WarningsToTableData(report)); err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintf(stdout, "\n%s %s\n", emoji.Info, report.Summary())
	return nil
}
