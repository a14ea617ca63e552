package deeplink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Config decides which urls are deep links.
type Config = domain.DeeplinkConfig

// configFile is the layout of a deeplinks.yaml file.
type configFile struct {
	Deeplinks Config `yaml:"deeplinks" json:"deeplinks"`
}

// LoadConfig reads the "deeplinks" section of a YAML or JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read deeplink config: %w", err)
	}
	return ParseConfig(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// ParseConfig decodes the "deeplinks" section of a YAML (or JSON) document.
func ParseConfig(data []byte, isJSON bool) (Config, error) {
	var cfg configFile
	if isJSON {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse deeplink config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse deeplink config: %w", err)
	}
	return cfg.Deeplinks, nil
}
