package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/csvlens/internal/config"
	"github.com/KaramelBytes/csvlens/internal/table"
)

var (
	cfgFile string
	debug   bool
	// Loading overrides (take precedence over config and env)
	flagDelimiter string
	flagNA        string

	// Loaded configuration
	cfg *cfgpkg.Global

	log = newLogger()
)

var rootCmd = &cobra.Command{
	Use:   "csvlens",
	Short: "csvlens: profile, summarize and clean CSV datasets",
	Long: `csvlens loads CSV, TSV and XLSX tables, infers column types, reports missing values
and descriptive statistics, and applies basic cleaning operations before exporting CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.csvlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagNA, "na", "", "comma-separated tokens treated as missing (overrides config); --na \"\" keeps only empty cells as missing")
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.WarnLevel)
	return l
}

func loadConfig() {
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so commands still run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
		if dir, derr := cfgpkg.Dir(); derr == nil {
			c.WorkspacesDir = filepath.Join(dir, "workspaces")
		}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("na") {
		cfg.MissingTokens = naTokens(flagNA)
	}
	log.WithFields(logrus.Fields{
		"delimiter":      cfg.Delimiter,
		"missing_tokens": strings.Join(cfg.MissingTokens, ","),
		"workspaces_dir": cfg.WorkspacesDir,
	}).Debug("config loaded")
}

// tableOptions resolves loading options from config and flags, with
// workspace settings (if any) applied between the two.
func tableOptions(wsApply func(table.Options) (table.Options, error)) (table.Options, error) {
	opt, err := cfg.TableOptions()
	if err != nil {
		return opt, err
	}
	if wsApply != nil {
		if opt, err = wsApply(opt); err != nil {
			return opt, err
		}
	}
	// flags win over workspace settings
	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		r, err := table.ParseDelimiter(flagDelimiter)
		if err != nil {
			return opt, err
		}
		opt.Delimiter = r
	}
	if f.Changed("na") {
		opt.MissingTokens = naTokens(flagNA)
	}
	return opt, nil
}

// naTokens splits the --na value. An explicit empty value means only empty
// cells are missing, which turns off the default NA spellings.
func naTokens(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{""}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
