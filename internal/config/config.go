package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/jdziat/simple-reminders/pkg/security"
)

// Defaults
const (
	DefaultDatabase    = "reminders.db"
	DefaultConcurrency = 4
	DefaultFiles       = 1
	DefaultLogLevel    = "info"
	EnvPrefix          = "REMINDERS_"
)

// ErrInvalidLogLevel is returned for log levels slog does not know.
var ErrInvalidLogLevel = errors.New("config: invalid log level")

// Config holds resolved settings.
type Config struct {
	ConfigFile    string `toml:"-"`
	Database      string `toml:"database"`
	Concurrency   int    `toml:"concurrency"`
	Files         int    `toml:"files"`
	Strict        bool   `toml:"strict"`
	LogLevel      string `toml:"log_level"`
	MaxLineLength int    `toml:"max_line_length"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Database:      DefaultDatabase,
		Concurrency:   DefaultConcurrency,
		Files:         DefaultFiles,
		LogLevel:      DefaultLogLevel,
		MaxLineLength: security.MaxLineLength,
	}
}

// AddFlags registers the global flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP("config", "c", "", "path to a TOML config file")
	fs.String("db", d.Database, "SQLite path or postgres:// DSN")
	fs.IntP("concurrency", "j", d.Concurrency, "parsing goroutines per file")
	fs.Int("files", d.Files, "files imported at once")
	fs.Bool("strict", d.Strict, "reject rules that fail validation")
	fs.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	fs.Int("max-line-length", d.MaxLineLength, "longest accepted line in bytes")
}

// Load resolves configuration for a parsed flag set. getenv is usually
// os.Getenv; a nil getenv disables the environment layer.
func Load(fs *pflag.FlagSet, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	cfg := Default()

	path, _ := fs.GetString("config")
	if path == "" {
		path = getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
	}

	if err := loadEnv(cfg, getenv); err != nil {
		return nil, err
	}
	if err := loadFlags(cfg, fs); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvPrefix + "DB"); v != "" {
		cfg.Database = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"CONCURRENCY", &cfg.Concurrency},
		{"FILES", &cfg.Files},
		{"MAX_LINE_LENGTH", &cfg.MaxLineLength},
	}
	for _, e := range ints {
		v := getenv(EnvPrefix + e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
		}
		*e.dst = n
	}
	if v := getenv(EnvPrefix + "STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSTRICT: %w", EnvPrefix, err)
		}
		cfg.Strict = b
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// loadFlags copies only flags set on the command line so that file and
// environment values are not clobbered by flag defaults.
func loadFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	if fs.Changed("db") {
		if cfg.Database, err = fs.GetString("db"); err != nil {
			return err
		}
	}
	if fs.Changed("concurrency") {
		if cfg.Concurrency, err = fs.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if fs.Changed("files") {
		if cfg.Files, err = fs.GetInt("files"); err != nil {
			return err
		}
	}
	if fs.Changed("strict") {
		if cfg.Strict, err = fs.GetBool("strict"); err != nil {
			return err
		}
	}
	if fs.Changed("log-level") {
		if cfg.LogLevel, err = fs.GetString("log-level"); err != nil {
			return err
		}
	}
	if fs.Changed("max-line-length") {
		if cfg.MaxLineLength, err = fs.GetInt("max-line-length"); err != nil {
			return err
		}
	}
	return nil
}

func finalize(cfg *Config) error {
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = DefaultDatabase
	}
	cfg.Concurrency = security.ClampConcurrency(cfg.Concurrency)
	cfg.Files = security.ClampConcurrency(cfg.Files)
	cfg.MaxLineLength = security.ClampLineLength(cfg.MaxLineLength)
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return level, nil
}

// Level returns the configured slog level, falling back to info.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}
