package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/csvlens/internal/analysis"
	"github.com/KaramelBytes/csvlens/internal/table"
)

// DotEnvFile is loaded from the working directory, if present, before
// environment variables are read. Variables already set are not overridden.
const DotEnvFile = ".env"

// ErrUnknownKey is returned by Set for an unrecognized key.
var ErrUnknownKey = errors.New("unknown config key")

// Global configuration structure.
type Global struct {
	// Delimiter is a single character or "tab"; empty means auto (comma, tab for .tsv).
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	// MissingTokens replaces the default NA spellings when non-empty.
	MissingTokens []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`
	FillValue     string   `mapstructure:"fill_value" yaml:"fill_value"`
	TopN          int      `mapstructure:"top_n" yaml:"top_n"`
	// Workers bounds concurrent column profiling; 0 uses all CPUs.
	Workers       int    `mapstructure:"workers" yaml:"workers"`
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
}

// Dir returns ~/.csvlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from defaults, the config file, .env and the
// environment (CSVLENS_*), later sources winning. CLI flags are applied by
// the caller on top.
func Load(cfgFile string) (*Global, error) {
	if _, err := os.Stat(DotEnvFile); err == nil {
		if err := godotenv.Load(DotEnvFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("CSVLENS")
	v.AutomaticEnv()

	v.SetDefault("delimiter", "")
	v.SetDefault("missing_tokens", []string{})
	v.SetDefault("fill_value", "")
	v.SetDefault("top_n", analysis.DefaultTopN)
	v.SetDefault("workers", 0)
	v.SetDefault("workspaces_dir", "")

	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		// an explicit --config must exist; the default location is optional
		if cfgFile != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.WorkspacesDir == "" {
		c.WorkspacesDir = filepath.Join(dir, "workspaces")
	}
	if c.TopN <= 0 {
		c.TopN = analysis.DefaultTopN
	}
	return &c, nil
}

// TableOptions converts the loading settings into table.Options.
func (c *Global) TableOptions() (table.Options, error) {
	opt := table.DefaultOptions()
	r, err := table.ParseDelimiter(c.Delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = r
	if len(c.MissingTokens) > 0 {
		opt.MissingTokens = append([]string(nil), c.MissingTokens...)
	}
	return opt, nil
}

// AnalysisOptions converts the profiling settings into analysis.Options.
func (c *Global) AnalysisOptions() analysis.Options {
	return analysis.Options{TopN: c.TopN, Workers: c.Workers}
}

// Keys returns the settable keys in sorted order.
func Keys() []string {
	return []string{"delimiter", "fill_value", "missing_tokens", "top_n", "workers", "workspaces_dir"}
}

// Set assigns one key from its string form. missing_tokens is comma-separated.
func (c *Global) Set(key, val string) error {
	switch key {
	case "delimiter":
		if _, err := table.ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "missing_tokens":
		c.MissingTokens = nil
		if val != "" {
			for _, tok := range strings.Split(val, ",") {
				c.MissingTokens = append(c.MissingTokens, strings.TrimSpace(tok))
			}
		}
	case "fill_value":
		c.FillValue = val
	case "top_n":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid positive int for top_n: %v", val)
		}
		c.TopN = i
	case "workers":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for workers: %v", val)
		}
		c.Workers = i
	case "workspaces_dir":
		c.WorkspacesDir = val
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
