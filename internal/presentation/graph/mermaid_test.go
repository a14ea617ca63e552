package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func tree() wayfinder.Snapshot {
	return wayfinder.Snapshot{
		Selected: "home",
		Tabs: []wayfinder.TabSnapshot{
			{
				ID:    "home",
				Title: "Home",
				Coordinator: domain.CoordinatorSnapshot{
					ID:   "c1",
					Root: domain.ItemSnapshot{ID: "root-1", Destination: "home", Reference: domain.TabRoot},
					Path: []domain.ItemSnapshot{
						{ID: "item-2", Destination: "settings"},
					},
					Presentation: &domain.PresentationSnapshot{
						Presentation: domain.PresentationSheet,
						Coordinator: domain.CoordinatorSnapshot{
							ID:    "c2",
							Root:  domain.ItemSnapshot{ID: "root-3", Destination: "blocked:login", BlockedBy: "login"},
							Alert: "Session expired",
						},
					},
				},
			},
			{
				ID: "search",
				Coordinator: domain.CoordinatorSnapshot{
					ID:   "c3",
					Root: domain.ItemSnapshot{ID: "root-4", Destination: "search"},
				},
			},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		contains []string
	}{
		{
			name: "Tabs As Subgraphs",
			contains: []string{
				"subgraph tab_home[\"Home\"]",
				"subgraph tab_search[\"search\"]",
			},
		},
		{
			name: "Item Shapes",
			contains: []string{
				"n_root_1((\"home\"))",
				"n_item_2[\"settings\"]",
				"n_root_3[/\"blocked:login <br/> 🔒 login\"/]",
				"n_alert_c2{{\"Session expired\"}}",
			},
		},
		{
			name: "Edges",
			contains: []string{
				"n_root_1 --> n_item_2",
				"n_item_2 -. sheet .-> n_root_3",
				"n_root_3 -. alert .-> n_alert_c2",
			},
		},
		{
			name: "Overlay",
			contains: []string{
				"class n_root_1 visible;",
				"class n_item_2 visible;",
				"class n_root_3 top;",
			},
		},
	}

	out := graph.GenerateMermaid(tree())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.NotContains(t, out, "class n_root_4", "background tabs are not highlighted")
}

func TestGenerateMermaid_Modal(t *testing.T) {
	snap := tree()
	snap.Tabs[0].Coordinator.Presentation.IsModal = true
	snap.Tabs[0].Coordinator.Presentation.Presentation = domain.PresentationFullScreen

	out := graph.GenerateMermaid(snap)

	assert.Contains(t, out, "n_item_2 == full_screen ==> n_root_3")
}

func TestGenerateMarkdown(t *testing.T) {
	out := graph.GenerateMarkdown(tree())

	assert.Contains(t, out, "## Home *(selected)*")
	assert.Contains(t, out, "1. `home` ref `tabRoot`")
	assert.Contains(t, out, "2. `settings`")
	assert.Contains(t, out, "- presented as *sheet*:")
	assert.Contains(t, out, "  1. `blocked:login` **blocked by** `login`")
	assert.Contains(t, out, "  - alert: Session expired")
	assert.Contains(t, out, "## search\n")
}
