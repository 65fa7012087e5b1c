package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdziat/simple-reminders/pkg/security"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reminders.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(parseFlags(t), nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, DefaultFiles, cfg.Files)
	assert.False(t, cfg.Strict)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
	assert.Equal(t, security.MaxLineLength, cfg.MaxLineLength)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
database = "/tmp/rules.db"
concurrency = 8
strict = true
log_level = "debug"
`)
	cfg, err := Load(parseFlags(t, "--config", path), nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/tmp/rules.db", cfg.Database)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.True(t, cfg.Strict)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_FileFromEnv(t *testing.T) {
	path := writeConfig(t, `files = 3`)
	cfg, err := Load(parseFlags(t), envMap(map[string]string{"REMINDERS_CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Files)
}

func TestLoad_UnknownKey(t *testing.T) {
	path := writeConfig(t, `databse = "typo.db"`)
	_, err := Load(parseFlags(t, "--config", path), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "databse")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(parseFlags(t, "--config", filepath.Join(t.TempDir(), "nope.toml")), nil)
	assert.Error(t, err)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
database = "file.db"
concurrency = 2
log_level = "warn"
`)
	env := envMap(map[string]string{
		"REMINDERS_DB":          "env.db",
		"REMINDERS_CONCURRENCY": "6",
		"REMINDERS_STRICT":      "true",
	})

	cfg, err := Load(parseFlags(t, "--config", path, "--concurrency", "10"), env)
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Database, "env overrides file")
	assert.Equal(t, 10, cfg.Concurrency, "flag overrides env")
	assert.True(t, cfg.Strict)
	assert.Equal(t, slog.LevelWarn, cfg.Level(), "file overrides default")
}

func TestLoad_UnsetFlagKeepsEnv(t *testing.T) {
	cfg, err := Load(parseFlags(t), envMap(map[string]string{"REMINDERS_LOG_LEVEL": "error"}))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.Level())
}

func TestLoad_BadEnv(t *testing.T) {
	_, err := Load(parseFlags(t), envMap(map[string]string{"REMINDERS_FILES": "many"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMINDERS_FILES")

	_, err = Load(parseFlags(t), envMap(map[string]string{"REMINDERS_STRICT": "maybe"}))
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	_, err := Load(parseFlags(t, "--log-level", "loud"), nil)
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestLoad_Clamps(t *testing.T) {
	cfg, err := Load(parseFlags(t, "--concurrency", "0", "--files", "100000", "--max-line-length", "-1"), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, security.MaxConcurrency, cfg.Files)
	assert.Equal(t, security.MaxLineLength, cfg.MaxLineLength)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLevel("")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
