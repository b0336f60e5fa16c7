package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WriteDefault writes the default configuration to .romple/config.yaml under
// dir. It refuses to overwrite an existing file unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, DefaultConfigPath)

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(NewConfig())
	if err != nil {
		return path, fmt.Errorf("marshal default config: %w", err)
	}

	header := []byte("# romple configuration\n# Values omitted here fall back to built-in defaults.\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return path, fmt.Errorf("write config file: %w", err)
	}

	return path, nil
}
