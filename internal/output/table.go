// Package output renders CLI results for human consumption.
package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lexlens/lexlens/internal/lexlink/driver/ollama"
)

// ModelsTable renders the backend model list as an ASCII table. The
// configured vision and reasoning models are marked in the Role column.
func ModelsTable(models []ollama.Model, visionModel, reasoningModel string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Name", "Family", "Parameters", "Size", "Role"})

	for _, m := range models {
		t.AppendRow(table.Row{
			m.Name,
			m.Details.Family,
			m.Details.ParameterSize,
			formatSize(m.Size),
			roleLabel(m.Name, visionModel, reasoningModel),
		})
	}

	if len(models) == 0 {
		t.AppendFooter(table.Row{"no models installed", "", "", "", ""})
	}

	return t.Render()
}

func roleLabel(name, visionModel, reasoningModel string) string {
	switch name {
	case reasoningModel:
		return "reasoning"
	case visionModel:
		return "vision"
	default:
		return ""
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
