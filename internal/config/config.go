// ABOUTME: Application settings loaded from YAML, environment and defaults.
// ABOUTME: Environment overrides use the POST_ prefix, e.g. POST_SELECTOR_PAGE_SIZE.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DB       string         `mapstructure:"db" yaml:"db"`
	Editor   string         `mapstructure:"editor" yaml:"editor"`
	Selector SelectorConfig `mapstructure:"selector" yaml:"selector"`
	List     ListConfig     `mapstructure:"list" yaml:"list"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type SelectorConfig struct {
	ResetQueryOnExpand bool `mapstructure:"reset_query_on_expand" yaml:"reset_query_on_expand"`
	PageSize           int  `mapstructure:"page_size" yaml:"page_size"`
}

type ListConfig struct {
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "post")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func stateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, _ := os.UserHomeDir()
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "post")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("editor", "")
	v.SetDefault("selector.reset_query_on_expand", false)
	v.SetDefault("selector.page_size", 8)
	v.SetDefault("list.default_limit", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(stateDir(), "post.log"))
}

// Load reads configuration. An explicit path must exist; the default path
// may be missing, in which case defaults and environment apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv("POST_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("POST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case !explicit && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Selector.PageSize <= 0 {
		c.Selector.PageSize = 8
	}
	if c.List.DefaultLimit <= 0 {
		c.List.DefaultLimit = 20
	}
	return c, nil
}

// Save writes cfg as YAML to path, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("db", cfg.DB)
	v.Set("editor", cfg.Editor)
	v.Set("selector.reset_query_on_expand", cfg.Selector.ResetQueryOnExpand)
	v.Set("selector.page_size", cfg.Selector.PageSize)
	v.Set("list.default_limit", cfg.List.DefaultLimit)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
