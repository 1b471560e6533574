// Package config loads mailtriage settings from defaults, an optional YAML
// file, MAILTRIAGE_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csheth/mailtriage/internal/extract"
	"github.com/csheth/mailtriage/internal/intake"
)

const (
	envPrefix       = "MAILTRIAGE"
	DefaultEndpoint = "http://localhost:5000/classify"
)

// Config is the validated application configuration.
type Config struct {
	Service ServiceConfig
	Intake  IntakeConfig
	Logging LoggingConfig
	UI      UIConfig
	// File is the config file that was read, empty when none was found.
	File string
}

// ServiceConfig locates the classification service.
type ServiceConfig struct {
	Endpoint  string
	HealthURL string
	Timeout   time.Duration
}

// IntakeConfig controls validation and how files are sent.
type IntakeConfig struct {
	Extensions  intake.ExtensionSet
	Policy      intake.FilePolicy
	Charset     string
	MaxFileSize int64
	InitialFile string
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// UIConfig toggles terminal behavior.
type UIConfig struct {
	AltScreen bool
	Probe     bool
}

// NewViper builds a viper instance with defaults, search paths and env
// bindings. configFile, when set, replaces the search paths.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mailtriage")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mailtriage")
		v.AddConfigPath("/etc/mailtriage/")
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.endpoint", DefaultEndpoint)
	v.SetDefault("service.health_url", "")
	v.SetDefault("service.timeout", "0s")

	v.SetDefault("intake.extensions", "standard")
	v.SetDefault("intake.file_policy", string(intake.PolicyUpload))
	v.SetDefault("intake.charset", extract.DefaultCharset)
	v.SetDefault("intake.max_file_size", 10<<20)
	v.SetDefault("intake.file", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")

	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.probe", true)
}

// RegisterFlags declares the command line flags understood by BindFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("endpoint", DefaultEndpoint, "classification endpoint URL")
	fs.String("health-url", "", "health check URL (default: endpoint origin + /health)")
	fs.Duration("timeout", 0, "request timeout, 0 leaves it to the platform")
	fs.String("extensions", "standard", "accepted file extensions: standard, extended or a list like .txt,.pdf")
	fs.String("file-policy", string(intake.PolicyUpload), "how files are sent: upload, placeholder or extract")
	fs.String("charset", extract.DefaultCharset, "charset for non UTF-8 text files (extract policy)")
	fs.String("file", "", "preselect a file and open the file tab")
	fs.String("log-file", "", "log file path (default: user cache dir)")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	fs.Bool("skip-probe", false, "skip the startup connectivity check")
}

var flagKeys = map[string]string{
	"endpoint":    "service.endpoint",
	"health-url":  "service.health_url",
	"timeout":     "service.timeout",
	"extensions":  "intake.extensions",
	"file-policy": "intake.file_policy",
	"charset":     "intake.charset",
	"file":        "intake.file",
	"log-file":    "logging.file",
	"log-level":   "logging.level",
}

// BindFlags makes explicitly set flags override every other source.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	if fs.Changed("no-alt-screen") {
		if off, _ := fs.GetBool("no-alt-screen"); off {
			v.Set("ui.alt_screen", false)
		}
	}
	if fs.Changed("skip-probe") {
		if skip, _ := fs.GetBool("skip-probe"); skip {
			v.Set("ui.probe", false)
		}
	}
	return nil
}

// Load reads the config file (a missing file is fine) and validates every
// setting.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{File: v.ConfigFileUsed()}
	cfg.Service = ServiceConfig{
		Endpoint:  strings.TrimSpace(v.GetString("service.endpoint")),
		HealthURL: strings.TrimSpace(v.GetString("service.health_url")),
		Timeout:   v.GetDuration("service.timeout"),
	}
	if err := validateURL(cfg.Service.Endpoint); err != nil {
		return nil, fmt.Errorf("service.endpoint: %w", err)
	}
	if cfg.Service.HealthURL != "" {
		if err := validateURL(cfg.Service.HealthURL); err != nil {
			return nil, fmt.Errorf("service.health_url: %w", err)
		}
	}
	if cfg.Service.Timeout < 0 {
		return nil, fmt.Errorf("service.timeout: must not be negative")
	}

	extensions, err := intake.ParseExtensionSet(v.GetString("intake.extensions"))
	if err != nil {
		return nil, fmt.Errorf("intake.extensions: %w", err)
	}
	policy, err := intake.ParseFilePolicy(v.GetString("intake.file_policy"))
	if err != nil {
		return nil, fmt.Errorf("intake.file_policy: %w", err)
	}
	cfg.Intake = IntakeConfig{
		Extensions:  extensions,
		Policy:      policy,
		Charset:     v.GetString("intake.charset"),
		MaxFileSize: v.GetInt64("intake.max_file_size"),
		InitialFile: strings.TrimSpace(v.GetString("intake.file")),
	}

	cfg.Logging = LoggingConfig{
		Level:  strings.ToLower(v.GetString("logging.level")),
		Format: strings.ToLower(v.GetString("logging.format")),
		File:   v.GetString("logging.file"),
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("logging.level: unknown level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return nil, fmt.Errorf("logging.format: unknown format %q", cfg.Logging.Format)
	}

	cfg.UI = UIConfig{
		AltScreen: v.GetBool("ui.alt_screen"),
		Probe:     v.GetBool("ui.probe"),
	}
	return cfg, nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
