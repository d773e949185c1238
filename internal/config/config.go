package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/san-kum/stormview/internal/ibtracs"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Years    YearsConfig
	UI       UIConfig
	Specs    SpecsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// YearsConfig holds the inclusive shared-year bounds and the year the
// dashboard starts on.
type YearsConfig struct {
	Start   int
	End     int
	Initial int
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FrameRate int `mapstructure:"frame_rate"`
	Theme     string
}

// SpecsConfig points at user-provided chart spec documents.
type SpecsConfig struct {
	Dir     string
	Presets string
}

// Load reads configuration from file and env. Env var overrides use
// prefix STORMVIEW_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "stormview", "stormview.db"))
	v.SetDefault("years.start", ibtracs.DefaultStartYear)
	v.SetDefault("years.end", ibtracs.DefaultEndYear)
	v.SetDefault("years.initial", ibtracs.DefaultStartYear)
	v.SetDefault("ui.frame_rate", 30)
	v.SetDefault("ui.theme", "ocean")
	v.SetDefault("specs.dir", "")
	v.SetDefault("specs.presets", "")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("STORMVIEW_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stormview"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STORMVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Years.Start > c.Years.End {
		return fmt.Errorf("years.start %d is after years.end %d", c.Years.Start, c.Years.End)
	}
	if c.Years.Initial < c.Years.Start || c.Years.Initial > c.Years.End {
		c.Years.Initial = c.Years.Start
	}
	if c.UI.FrameRate <= 0 {
		c.UI.FrameRate = 30
	}
	return nil
}
