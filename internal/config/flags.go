package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bethropolis/deck/internal/logger"
)

// Flags holds values parsed from command-line flags. Only flags that were
// actually set override the config file; see ApplyOverrides.
type Flags struct {
	ConfigFilePath  string
	LogLevel        string
	LogFilePath     string
	EnableTags      string
	DisableTags     string
	EnablePkgs      string
	DisablePkgs     string
	EnableFiles     string
	DisableFiles    string
	MaxHistory      int
	DuplicateOffset float64
	Strict          bool
	SystemClipboard bool
	ThemesDir       string
	Addr            string
}

// DefineFlags registers the flags on fs.
func (f *Flags) DefineFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFilePath, "config", "", fmt.Sprintf("Path to TOML configuration file (default <config dir>/%s/%s)", ConfigDirName, DefaultConfigFileName))
	fs.StringVar(&f.LogLevel, "loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	fs.StringVar(&f.LogFilePath, "logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	fs.StringVar(&f.EnableTags, "log-tags", "", "Comma-separated list of tags to enable")
	fs.StringVar(&f.DisableTags, "log-disable-tags", "", "Comma-separated list of tags to disable")
	fs.StringVar(&f.EnablePkgs, "log-packages", "", "Comma-separated list of packages to enable")
	fs.StringVar(&f.DisablePkgs, "log-disable-packages", "", "Comma-separated list of packages to disable")
	fs.StringVar(&f.EnableFiles, "log-files", "", "Comma-separated list of files to enable")
	fs.StringVar(&f.DisableFiles, "log-disable-files", "", "Comma-separated list of files to disable")
	fs.IntVar(&f.MaxHistory, "max-history", DefaultMaxHistory, "Maximum number of undo steps kept")
	fs.Float64Var(&f.DuplicateOffset, "duplicate-offset", DefaultDuplicateOffset, "Offset applied to duplicated and pasted elements")
	fs.BoolVar(&f.Strict, "strict", false, "Panic when an edit breaks a document invariant")
	fs.BoolVar(&f.SystemClipboard, "system-clipboard", false, "Mirror copied elements to the system clipboard")
	fs.StringVar(&f.ThemesDir, "themes-dir", "", "Directory with additional TOML theme files")
	fs.StringVar(&f.Addr, "addr", "", fmt.Sprintf("HTTP listen address for serve (default %s)", DefaultServerAddr))
}

// ApplyOverrides updates cfg with the flags that were set on fs.
func (f *Flags) ApplyOverrides(cfg *Config, fs *pflag.FlagSet) {
	// Visit only processes flags that were actually set
	fs.Visit(func(fl *pflag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s=%s", fl.Name, fl.Value)
		switch fl.Name {
		case "loglevel":
			if f.LogLevel != "" {
				cfg.Logger.LogLevel = f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(f.DisableFiles)
		case "max-history":
			if f.MaxHistory > 0 {
				cfg.Engine.MaxHistory = f.MaxHistory
			}
		case "duplicate-offset":
			if f.DuplicateOffset > 0 {
				cfg.Engine.DuplicateOffset = f.DuplicateOffset
			}
		case "strict":
			cfg.Engine.StrictInvariants = f.Strict
		case "system-clipboard":
			cfg.Clipboard.System = f.SystemClipboard
		case "themes-dir":
			cfg.Themes.Dir = f.ThemesDir
		case "addr":
			if f.Addr != "" {
				cfg.Server.Addr = f.Addr
			}
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
