package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tastopo/tastopo/pkg/errors"
	"github.com/tastopo/tastopo/pkg/pipeline"
)

// Config holds user preferences read from the config file
// (~/.config/tastopo/config.toml). Every field is optional; zero values
// fall through to built-in defaults.
type Config struct {
	// ListmapURL overrides the ListMap service root. Useful for
	// mirrors and testing.
	ListmapURL string `toml:"listmap_url"`

	// GeomagURL and GeomagKey configure the declination service.
	GeomagURL string `toml:"geomag_url"`
	GeomagKey string `toml:"geomag_key"`

	// Scale, Paper and Format set default generation options.
	Scale  uint   `toml:"scale"`
	Paper  string `toml:"paper"`
	Format string `toml:"format"`
}

// LoadConfig reads the config file if it exists. A missing file yields a
// zero Config; an unreadable or malformed file is a CONFIG_ERROR.
func LoadConfig() (Config, error) {
	path := configPath()
	if path == "" {
		return Config{}, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "reading config file %s", path)
	}
	return cfg, nil
}

// configPath returns the config file location using the XDG convention
// (~/.config/tastopo/config.toml).
func configPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName, "config.toml")
}

// applyDefaults copies configured defaults into options the user left
// unset. Flags win over config, config wins over built-ins.
func (cfg Config) applyDefaults(opts *pipeline.Options) {
	if opts.Scale == 0 {
		opts.Scale = cfg.Scale
	}
	if opts.Paper == "" {
		opts.Paper = cfg.Paper
	}
	if opts.Format == "" {
		opts.Format = cfg.Format
	}
}
