package table

import (
	"github.com/keekar2022/OSCAL-Reports-sub003/internal/cmd/emoji"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/catalogs"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/differ"
	"github.com/keekar2022/OSCAL-Reports-sub003/pkg/reconciler"
)

const (
	titleWidth  = 48
	changeWidth = 72
)

// ReportToTableData converts reconciliation entries to table format.
// Wide output adds the comparison method and a one-line change summary.
func ReportToTableData(report *reconciler.Report, wide bool) Data {
	headers := []string{"", "Control", "Status", "Title", "Implementation"}
	align := []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		headers = append(headers, "Method", "Changes")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		req := e.Merged
		if req == nil {
			req = e.Prior
		}
		title, status := "", ""
		if req != nil {
			title = req.Title
			status = string(req.Status)
		}

		row := []string{
			StatusMarker(e.Status),
			e.ControlID,
			Label(string(e.Status)),
			orDash(Truncate(title, titleWidth)),
			Label(status),
		}
		if wide {
			row = append(row, Label(string(e.Method)), changeSummary(e.Changes))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// CountsToTableData renders per-status totals.
func CountsToTableData(c reconciler.Counts) Data {
	rows := make([][]string, 0, len(differ.Statuses())+1)
	for _, s := range differ.Statuses() {
		rows = append(rows, []string{Label(string(s)), itoa(c.Of(s))})
	}
	rows = append(rows, []string{"Total", itoa(c.Total)})
	return Data{
		Headers:         []string{"Status", "Controls"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// WarningsToTableData lists structural and matching warnings.
func WarningsToTableData(report *reconciler.Report) Data {
	rows := make([][]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		rows = append(rows, []string{Label(string(w.Kind)), orDash(w.ControlID), orDash(w.Path), w.Message})
	}
	return Data{Headers: []string{"Kind", "Control", "Path", "Message"}, Rows: rows}
}

// ControlsToTableData converts a flattened control list to table format.
func ControlsToTableData(controls []catalogs.Control, wide bool) Data {
	headers := []string{"Control", "Family", "Title"}
	if wide {
		headers = append(headers, "Parent", "Class", "Params", "Parts")
	}

	rows := make([][]string, 0, len(controls))
	for _, c := range controls {
		row := []string{c.ID, orDash(c.Family), orDash(Truncate(c.Title, titleWidth))}
		if wide {
			row = append(row, orDash(c.ParentID), orDash(c.Class), itoa(len(c.Params)), itoa(len(c.Parts)))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// ValidationToTableData converts document validation findings to table format.
func ValidationToTableData(result *reconciler.ValidationResult) Data {
	rows := make([][]string, 0, len(result.Errors)+len(result.Warnings))
	for _, e := range result.Errors {
		rows = append(rows, []string{emoji.Error, "Error", orDash(e.ResourceID), e.Field, e.Message})
	}
	for _, w := range result.Warnings {
		rows = append(rows, []string{emoji.Warning, "Warning", orDash(w.ResourceID), w.Field, w.Message})
	}
	return Data{
		Headers:         []string{"", "Severity", "Resource", "Field", "Message"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

// StatusMarker returns the one-character marker for a classification.
func StatusMarker(s differ.Status) string {
	switch s {
	case differ.StatusNew:
		return emoji.New
	case differ.StatusChanged:
		return emoji.Changed
	case differ.StatusUnchanged:
		return emoji.Unchanged
	case differ.StatusRemoved:
		return emoji.Removed
	default:
		return ""
	}
}

func changeSummary(changes []differ.FieldChange) string {
	switch len(changes) {
	case 0:
		return "-"
	case 1:
		return Truncate(changes[0].String(), changeWidth)
	default:
		return Truncate(changes[0].String(), changeWidth-12) + " (+" + itoa(len(changes)-1) + " more)"
	}
}
