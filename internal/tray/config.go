package tray

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const defaultAPI = "http://localhost:8080"

// Config is the optional ~/.watchhub/config.toml. Flags override it.
type Config struct {
	API string `toml:"api"`
	// OpenCommand overrides the platform browser launcher, e.g. "firefox".
	OpenCommand string `toml:"open_command"`
}

// LoadConfig reads path, or ~/.watchhub/config.toml when path is empty.
// A missing file is not an error; defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := Config{API: defaultAPI}

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, ".watchhub", "config.toml")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("tray: parse %s: %w", path, err)
	}
	if cfg.API == "" {
		cfg.API = defaultAPI
	}
	return cfg, nil
}
