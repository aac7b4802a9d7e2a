package libsync

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/musiclib/libsync/pkg/report"
)

const globalScopeName = "(global)"

// instanceTable lists every reportable instance with its final count.
func instanceTable(views []report.InstanceView) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Scope", "Header", "Count"})

	for _, v := range views {
		if v.Count == 0 && !v.AlwaysShow {
			continue
		}
		scope := v.Scope
		if scope == "" {
			scope = globalScopeName
		}
		tw.AppendRow(table.Row{scope, v.Summary, v.Count})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
