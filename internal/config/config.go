// Package config loads docscore settings from a .docscore file, environment
// variables and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/docscore/internal/probe"
)

const (
	DefaultBibliography = "Bibliography_base.bib"
	DefaultFormat       = "text"
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"

	// EnvPrefix prefixes environment overrides, e.g. DOCSCORE_JOBS.
	EnvPrefix = "DOCSCORE"
)

// candidates are the config file names searched in each directory.
var candidates = []string{
	".docscore.yaml",
	".docscore.yml",
	".docscore.json",
	".docscore.toml",
}

// Config is the merged docscore configuration.
type Config struct {
	// Jobs caps documents scored at once; 0 means one per CPU.
	Jobs         int      `mapstructure:"jobs" yaml:"jobs"`
	SkipProbe    bool     `mapstructure:"skip_probe" yaml:"skip_probe"`
	LogLevel     string   `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string   `mapstructure:"log_format" yaml:"log_format"`
	Bibliography string   `mapstructure:"bibliography" yaml:"bibliography"`
	Format       string   `mapstructure:"format" yaml:"format"`
	Timeouts     Timeouts `mapstructure:"timeouts" yaml:"timeouts"`

	// Path is the file the config was read from, empty for defaults.
	Path string `mapstructure:"-" yaml:"-"`
}

// Timeouts bound the external validity probes.
type Timeouts struct {
	Quarto time.Duration `mapstructure:"quarto" yaml:"quarto"`
	R      time.Duration `mapstructure:"r" yaml:"r"`
	Python time.Duration `mapstructure:"python" yaml:"python"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Jobs:         runtime.NumCPU(),
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Bibliography: DefaultBibliography,
		Format:       DefaultFormat,
		Timeouts: Timeouts{
			Quarto: probe.DefaultQuartoTimeout,
			R:      probe.DefaultRTimeout,
			Python: probe.DefaultPythonTimeout,
		},
	}
}

// Load reads configPath, or the first config file found from dir upward when
// configPath is empty, and applies DOCSCORE_* environment overrides.
func Load(configPath, dir string) (*Config, error) {
	if configPath == "" {
		configPath = Discover(dir)
	}

	// A fresh viper per load keeps parallel tests independent.
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config.Load: read %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	cfg.Path = configPath
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("skip_probe", d.SkipProbe)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("bibliography", d.Bibliography)
	v.SetDefault("format", d.Format)
	v.SetDefault("timeouts.quarto", d.Timeouts.Quarto)
	v.SetDefault("timeouts.r", d.Timeouts.R)
	v.SetDefault("timeouts.python", d.Timeouts.Python)
}

// Discover returns the first config file found in dir or any parent, or "".
func Discover(dir string) string {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for d := abs; ; d = filepath.Dir(d) {
		for _, name := range candidates {
			path := filepath.Join(d, name)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path
			}
		}
		if parent := filepath.Dir(d); parent == d {
			return ""
		}
	}
}

var (
	validFormats    = map[string]bool{"text": true, "json": true, "sarif": true}
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"text": true, "json": true}
)

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Jobs)
	}
	if c.Timeouts.Quarto < 0 {
		return fmt.Errorf("timeouts.quarto must be >= 0, got %s", c.Timeouts.Quarto)
	}
	if c.Timeouts.R < 0 {
		return fmt.Errorf("timeouts.r must be >= 0, got %s", c.Timeouts.R)
	}
	if c.Timeouts.Python < 0 {
		return fmt.Errorf("timeouts.python must be >= 0, got %s", c.Timeouts.Python)
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q, must be one of: text, json, sarif", c.Format)
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if !validLogFormats[c.LogFormat] {
		return fmt.Errorf("invalid log_format %q, must be text or json", c.LogFormat)
	}
	if c.Bibliography == "" || filepath.Base(c.Bibliography) != c.Bibliography {
		return fmt.Errorf("bibliography must be a file name, got %q", c.Bibliography)
	}
	return nil
}

// ProbeOptions converts the probe settings.
func (c *Config) ProbeOptions() probe.Options {
	return probe.Options{
		QuartoTimeout: c.Timeouts.Quarto,
		RTimeout:      c.Timeouts.R,
		PythonTimeout: c.Timeouts.Python,
		Skip:          c.SkipProbe,
	}
}
