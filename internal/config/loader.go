package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/djscaffold/djscaffold/internal/defs"
)

// Loader resolves and reads the configuration file.
type Loader struct {
	workDir       string
	userConfigDir string
	used          string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkDir sets the directory searched for .djscaffold.yaml.
func WithWorkDir(dir string) LoaderOption {
	return func(l *Loader) { l.workDir = dir }
}

// WithUserConfigDir sets the base directory holding djscaffold/config.yaml.
func WithUserConfigDir(dir string) LoaderOption {
	return func(l *Loader) { l.userConfigDir = dir }
}

// NewLoader creates a Loader searching the current directory and the
// user configuration directory.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	if wd, err := os.Getwd(); err == nil {
		l.workDir = wd
	}
	if dir, err := os.UserConfigDir(); err == nil {
		l.userConfigDir = dir
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// UserConfigPath returns the user-level config file location, or "" when
// the user configuration directory is unknown.
func (l *Loader) UserConfigPath() string {
	if l.userConfigDir == "" {
		return ""
	}
	return filepath.Join(l.userConfigDir, defs.ConfigDirName, defs.ConfigFileName)
}

// Used returns the file read by the last Load, or "" when only defaults
// and environment variables applied.
func (l *Loader) Used() string {
	return l.used
}

// Load reads path, or the first existing of ./.djscaffold.yaml and the
// user config file when path is empty. DJSCAFFOLD_<SECTION>_<KEY>
// environment variables override file values; missing keys keep defaults.
func (l *Loader) Load(path string) (*Config, error) {
	v := viper.New()
	registerDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(defs.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	l.used = ""
	file := path
	if file == "" {
		file = l.discover()
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			switch {
			case errors.As(err, &parseErr):
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, file, err)
			case errors.Is(err, fs.ErrNotExist):
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, file)
			default:
				return nil, fmt.Errorf("read config %s: %w", file, err)
			}
		}
		l.used = file
		slog.Debug("config loaded", "path", file)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

func (l *Loader) discover() string {
	candidates := []string{}
	if l.workDir != "" {
		candidates = append(candidates, filepath.Join(l.workDir, defs.LocalConfigFile))
	}
	if p := l.UserConfigPath(); p != "" {
		candidates = append(candidates, p)
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Write saves cfg as YAML at path, creating parent directories. An
// existing file is only replaced when force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), defs.DirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, defs.FilePerm); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
