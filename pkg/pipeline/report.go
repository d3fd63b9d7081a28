package pipeline

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render returns the batch summary as a human-readable table
func (s *Summary) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"File", "Status"})
	for _, r := range s.Results {
		status := "ok"
		if r.Err != nil {
			status = fmt.Sprintf("failed: %v", r.Err)
		}
		tw.AppendRow(table.Row{r.Name, status})
	}

	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d total", s.Total()),
		fmt.Sprintf("%d ok, %d failed", s.Succeeded(), len(s.Failed())),
	})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
