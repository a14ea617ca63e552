package deeplink_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/wayfinder/pkg/deeplink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameters(t *testing.T) {
	p := deeplink.Parameters{"id": "42", "name": "ada", "bad": "x1"}

	assert.Equal(t, "ada", p.Get("name"))
	assert.Equal(t, "", p.Get("missing"))

	id, ok := p.Int("id")
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = p.Int("bad")
	assert.False(t, ok)
	_, ok = p.Int("missing")
	assert.False(t, ok)
}

func TestParameters_Decode(t *testing.T) {
	var out struct {
		ID    int    `mapstructure:"id"`
		Name  string `mapstructure:"name"`
		Draft bool   `mapstructure:"draft"`
	}
	p := deeplink.Parameters{"id": "7", "name": "report", "draft": "true"}

	require.NoError(t, p.Decode(&out))
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "report", out.Name)
	assert.True(t, out.Draft)

	var bad struct {
		ID int `mapstructure:"id"`
	}
	assert.Error(t, deeplink.Parameters{"id": "seven"}.Decode(&bad))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "links.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
deeplinks:
  app_scheme: myapp
  universal_link_prefix: 'https?://(.*\.)?example\.com/'
`), 0o644))

	cfg, err := deeplink.LoadConfig(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "myapp", cfg.AppScheme)
	assert.Equal(t, `https?://(.*\.)?example\.com/`, cfg.UniversalLinkPrefix)

	jsonPath := filepath.Join(dir, "links.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"deeplinks":{"app_scheme":"other"}}`), 0o644))

	cfg, err = deeplink.LoadConfig(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "other", cfg.AppScheme)

	_, err = deeplink.LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = deeplink.ParseConfig([]byte("deeplinks: ["), false)
	assert.Error(t, err)
}
