package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// GenerateMarkdown renders the navigation tree as a markdown report, one
// section per tab with presented stacks nested below the item presenting them.
func GenerateMarkdown(snap wayfinder.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("# Navigation tree\n")

	for _, tab := range snap.Tabs {
		title := tab.Title
		if title == "" {
			title = string(tab.ID)
		}
		marker := ""
		if tab.ID == snap.Selected {
			marker = " *(selected)*"
		}
		fmt.Fprintf(&sb, "\n## %s%s\n\n", title, marker)
		writeStack(&sb, tab.Coordinator, 0)
	}
	return sb.String()
}

func writeStack(sb *strings.Builder, c domain.CoordinatorSnapshot, depth int) {
	indent := strings.Repeat("  ", depth)
	items := append([]domain.ItemSnapshot{c.Root}, c.Path...)
	for i, item := range items {
		fmt.Fprintf(sb, "%s%d. `%s`", indent, i+1, item.Destination)
		if item.Reference != "" {
			fmt.Fprintf(sb, " ref `%s`", item.Reference)
		}
		if item.BlockedBy != "" {
			fmt.Fprintf(sb, " **blocked by** `%s`", item.BlockedBy)
		}
		sb.WriteString("\n")
	}
	if c.Alert != "" {
		fmt.Fprintf(sb, "%s- alert: %s\n", indent, c.Alert)
	}
	if p := c.Presentation; p != nil {
		modal := ""
		if p.IsModal {
			modal = ", modal"
		}
		fmt.Fprintf(sb, "%s- presented as *%s%s*:\n", indent, p.Presentation, modal)
		writeStack(sb, p.Coordinator, depth+1)
	}
}
