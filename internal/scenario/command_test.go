package scenario_test

import (
	"testing"

	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want scenario.Step
	}{
		{"push settings", scenario.Step{Push: "settings"}},
		{"push settings ref prefs", scenario.Step{Push: "settings", Reference: "prefs"}},
		{"present account", scenario.Step{Present: "account"}},
		{"present account as full_screen modal", scenario.Step{Present: "account", As: "full_screen", Modal: true}},
		{"open shop://order/1", scenario.Step{Deeplink: "shop://order/1"}},
		{"back", scenario.Step{Back: true}},
		{"back to settings last", scenario.Step{BackTo: "settings", Last: true}},
		{"tab home pop", scenario.Step{Tab: "home", PopToRoot: true}},
		{"dismiss", scenario.Step{Dismiss: true}},
		{"alert Session expired", scenario.Step{Alert: "Session expired"}},
		{"satisfy login", scenario.Step{Satisfy: "login"}},
		{"revoke login", scenario.Step{Revoke: "login"}},
		{"pop", scenario.Step{PopToRoot: true}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := scenario.ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "jump", "push", "back home", "present a sideways", "alert"} {
		_, err := scenario.ParseCommand(line)
		assert.Error(t, err, line)
	}
}
