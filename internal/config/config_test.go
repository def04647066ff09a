package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the .env lookup into a fresh directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := DotEnvPath
	DotEnvPath = filepath.Join(dir, ".env")
	t.Cleanup(func() { DotEnvPath = old })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "./", cfg.MonthsDir)
	assert.Equal(t, "./results.xlsx", cfg.Workbook)
	assert.Equal(t, "*.txt", cfg.DayFilePattern)
	assert.Equal(t, "ALREADY_ANALYZED", cfg.MarkerFile)
	assert.Equal(t, ".", cfg.DiagnosticsDir)
	assert.Equal(t, "", cfg.ArchiveDB)
	assert.Equal(t, "utf-8", cfg.Encoding)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadMainConfig_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `
months_dir: /data/journals
workbook: /data/out/stats.xlsx
encoding: windows-1252
max_concurrency: 2
archive_db: /data/out/archive.db
log_format: json
`)

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/journals", cfg.MonthsDir)
	assert.Equal(t, "/data/out/stats.xlsx", cfg.Workbook)
	assert.Equal(t, "/data/out", cfg.DiagnosticsDir)
	assert.Equal(t, "windows-1252", cfg.Encoding)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "/data/out/archive.db", cfg.ArchiveDB)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "*.txt", cfg.DayFilePattern)
}

func TestLoadMainConfig_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "max_concurrency: 2\nlog_level: info\n")

	t.Setenv("FUELSTATS_MAX_CONCURRENCY", "8")
	t.Setenv("FUELSTATS_LOG_LEVEL", "debug")

	cfg, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMainConfig_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, DotEnvPath, "FUELSTATS_MARKER_FILE=DONE\n")
	t.Cleanup(func() { os.Unsetenv("FUELSTATS_MARKER_FILE") })

	cfg, err := LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "DONE", cfg.MarkerFile)
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "months_dir: [unterminated\n"},
		{name: "negative concurrency", content: "max_concurrency: -1\n"},
		{name: "unknown encoding", content: "encoding: klingon\n"},
		{name: "unknown log level", content: "log_level: chatty\n"},
		{name: "unknown log format", content: "log_format: xml\n"},
		{name: "bad pattern", content: "day_file_pattern: \"[\"\n"},
		{name: "marker with directory", content: "marker_file: sub/DONE\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.yaml")
			writeFile(t, path, tt.content)

			_, err := LoadMainConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestSetPaths(t *testing.T) {
	dir := isolate(t)

	cfg, err := LoadMainConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	cfg.SetPaths("/data/journals", "/data/out/stats.xlsx")
	assert.Equal(t, "/data/journals", cfg.MonthsDir)
	assert.Equal(t, "/data/out/stats.xlsx", cfg.Workbook)
	assert.Equal(t, "/data/out", cfg.DiagnosticsDir, "derived directory follows the workbook")

	cfg.SetPaths("", "")
	assert.Equal(t, "/data/journals", cfg.MonthsDir)

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "diagnostics_dir: /var/reports\n")
	cfg, err = LoadMainConfig(path)
	require.NoError(t, err)
	cfg.SetPaths("", "/data/out/stats.xlsx")
	assert.Equal(t, "/var/reports", cfg.DiagnosticsDir, "explicit directory is kept")
}
