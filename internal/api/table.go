package api

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jackzampolin/metagen/internal/types"
)

const (
	urlColumnWidth         = 48
	titleColumnWidth       = 40
	descriptionColumnWidth = 60
)

// OutputResultsTo writes a result set as a table, or encoded as JSON/YAML.
func OutputResultsTo(w io.Writer, format OutputFormat, results []types.Result) error {
	if format != OutputFormatTable {
		return OutputTo(w, format, results)
	}
	RenderResults(w, results)
	return nil
}

// RenderResults renders results as a table. Error rows show the failure
// message in the description column.
func RenderResults(w io.Writer, results []types.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = true
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: urlColumnWidth},
		{Number: 3, WidthMax: titleColumnWidth},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, WidthMax: descriptionColumnWidth},
		{Number: 6, Align: text.AlignRight},
	})
	t.AppendHeader(table.Row{"#", "URL", "Title", "Len", "Description", "Len", "Focus Keyword"})

	failed := 0
	for i, r := range results {
		if r.Error {
			failed++
			t.AppendRow(table.Row{i + 1, r.URL, text.FgRed.Sprint(r.Title), "-", r.Description, "-", r.FocusKeyword})
			continue
		}
		t.AppendRow(table.Row{i + 1, r.URL, r.Title, r.TitleLength, r.Description, r.DescriptionLength, r.FocusKeyword})
	}

	t.AppendFooter(table.Row{"Total", len(results), fmt.Sprintf("Failed: %d", failed)})
	t.Render()
}
