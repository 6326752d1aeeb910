package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/chirp/internal/domain"
)

// LoadCharacter reads the agent's character descriptor from a YAML or JSON
// file, decided by extension. JSON is what the original character files use,
// YAML is friendlier to hand-edit.
func LoadCharacter(path string) (domain.Character, error) {
	var ch domain.Character

	data, err := os.ReadFile(path)
	if err != nil {
		return ch, fmt.Errorf("reading character file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ch); err != nil {
			return ch, fmt.Errorf("parsing character yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &ch); err != nil {
			return ch, fmt.Errorf("parsing character json: %w", err)
		}
	}

	if ch.Name == "" {
		return ch, fmt.Errorf("character file %s: name is required", path)
	}

	return ch, nil
}
