// Package render prints reports and charts as terminal tables.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// Table renders charts with one row per day and one column per series.
type Table struct {
	Style table.Style
}

var _ epidemic.Renderer = Table{}

// NewTable returns a Table using rounded borders.
func NewTable() Table {
	return Table{Style: table.StyleRounded}
}

func (r Table) writer(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(r.Style)
	return t
}

func (r Table) Render(w io.Writer, chart epidemic.Chart) error {
	for _, s := range chart.Series {
		if len(s.Points) != len(chart.Offsets) {
			return fmt.Errorf("series %q has %d points for %d days", s.Label, len(s.Points), len(chart.Offsets))
		}
	}

	t := r.writer(w)
	t.SetTitle("%s", chart.Title)

	header := table.Row{chart.XLabel}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for i, s := range chart.Series {
		header = append(header, s.Label)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)

	for i, offset := range chart.Offsets {
		row := table.Row{offset}
		for _, s := range chart.Series {
			row = append(row, s.Points[i])
		}
		t.AppendRow(row)
	}
	t.SetCaption("%s, %s scale", chart.YLabel, chart.Scale)
	t.Render()
	return nil
}

// RenderReport prints every country of a report, largest confirmed count first.
func (r Table) RenderReport(w io.Writer, title string, report epidemic.Report) {
	names := report.Countries()
	sort.SliceStable(names, func(i, j int) bool {
		return report[names[i]].Confirmed > report[names[j]].Confirmed
	})

	t := r.writer(w)
	t.SetTitle("%s", title)
	t.AppendHeader(table.Row{"Country", "Confirmed", "Deaths", "Recovered", "Active"})
	var total epidemic.Tally
	for _, name := range names {
		tally := report[name]
		total = total.Add(tally)
		t.AppendRow(table.Row{name, tally.Confirmed, tally.Deaths, tally.Recovered, tally.Active})
	}
	t.AppendFooter(table.Row{"Total", total.Confirmed, total.Deaths, total.Recovered, total.Active})
	t.Render()
}

// RenderList prints one value per row under a single heading.
func (r Table) RenderList(w io.Writer, heading string, items []string) {
	t := r.writer(w)
	t.AppendHeader(table.Row{heading})
	for _, item := range items {
		t.AppendRow(table.Row{item})
	}
	t.Render()
}
