package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the navigation tree.
// Each tab is a subgraph. Shapes follow the item's role:
// - Root: ((Circle))
// - Pushed: [Rectangle]
// - Blocked by a requirement: [/Parallelogram/]
// - Alert: {{Hexagon}}
// Pushes are solid arrows, presentations dotted arrows labelled with their style.
// The visible stack of the selected tab is highlighted.
func GenerateMermaid(snap wayfinder.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var visible []string
	for _, tab := range snap.Tabs {
		title := tab.Title
		if title == "" {
			title = string(tab.ID)
		}
		fmt.Fprintf(&sb, "    subgraph %s[\"%s\"]\n", sanitizeMermaidID("tab_"+string(tab.ID)), escape(title))
		ids := writeCoordinator(&sb, tab.Coordinator, "")
		sb.WriteString("    end\n")
		if tab.ID == snap.Selected {
			visible = ids
		}
	}

	if len(visible) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visible fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef top fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range visible[:len(visible)-1] {
			fmt.Fprintf(&sb, "    class %s visible;\n", id)
		}
		fmt.Fprintf(&sb, "    class %s top;\n", visible[len(visible)-1])
	}

	return sb.String()
}

// writeCoordinator writes c and everything presented on it. It returns the
// node ids of the visible stack, root first. edge is the arrow leading to c's root.
func writeCoordinator(sb *strings.Builder, c domain.CoordinatorSnapshot, edge string) []string {
	items := append([]domain.ItemSnapshot{c.Root}, c.Path...)
	ids := make([]string, 0, len(items))

	for i, item := range items {
		id := nodeID(item.ID)
		opener, closer := "[", "]"
		label := escape(item.Destination)
		switch {
		case item.BlockedBy != "":
			opener, closer = "[/", "/]"
			label = fmt.Sprintf("%s <br/> 🔒 %s", label, escape(string(item.BlockedBy)))
		case i == 0:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
		if i > 0 {
			fmt.Fprintf(sb, "    %s --> %s\n", ids[i-1], id)
		}
		ids = append(ids, id)
	}
	if edge != "" {
		sb.WriteString(strings.Replace(edge, "$", ids[0], 1))
	}

	last := ids[len(ids)-1]
	if c.Alert != "" {
		alertID := nodeID("alert_" + c.ID)
		fmt.Fprintf(sb, "    %s{{\"%s\"}}\n", alertID, escape(c.Alert))
		fmt.Fprintf(sb, "    %s -. alert .-> %s\n", last, alertID)
	}

	if p := c.Presentation; p != nil {
		arrow := fmt.Sprintf("    %s -. %s .-> $\n", last, p.Presentation)
		if p.IsModal {
			arrow = fmt.Sprintf("    %s == %s ==> $\n", last, p.Presentation)
		}
		ids = append(ids, writeCoordinator(sb, p.Coordinator, arrow)...)
	}
	return ids
}

func nodeID(id string) string {
	return "n_" + sanitizeMermaidID(id)
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
