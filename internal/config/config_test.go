package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate points the global config at a temp dir and runs the test from
// another temp dir so no real config leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Chdir(tmpDir)
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		require.Equal(t, "/custom/config/tradein/tradein.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		require.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
		require.Equal(t, "tradein.yml", filepath.Base(got))
	})
}

func TestProjectPath(t *testing.T) {
	require.Equal(t, "tradein.yml", ProjectPath())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	def := Default()
	require.Equal(t, def.DataDir, cfg.DataDir)
	require.Equal(t, def.LogLevel, cfg.LogLevel)
	require.Equal(t, InventoryFromFile, cfg.InventorySource)
	require.True(t, cfg.AutoAdvance)
	require.Equal(t, 150, cfg.AutoAdvanceDelayMs)
	require.Equal(t, "+62 ", cfg.PhonePrefix)
	require.Equal(t, DefaultShowrooms, cfg.Showrooms)
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(GlobalPath()), 0755))
	require.NoError(t, os.WriteFile(GlobalPath(), []byte("data_dir: .global\nlog_level: warn\n"), 0644))
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("data_dir: .project\nshowrooms:\n  - Showroom Depok\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ".project", cfg.DataDir)
	require.Equal(t, "warn", cfg.LogLevel, "global value survives when project does not set it")
	require.Equal(t, []string{"Showroom Depok"}, cfg.Showrooms)
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("inventory_source: file\n"), 0644))
	t.Setenv("TRADEIN_INVENTORY_SOURCE", "nats")
	t.Setenv("TRADEIN_AUTO_ADVANCE", "false")
	t.Setenv("TRADEIN_AUTO_ADVANCE_DELAY_MS", "300")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, InventoryFromNATS, cfg.InventorySource)
	require.False(t, cfg.AutoAdvance)
	require.Equal(t, 300, cfg.AutoAdvanceDelayMs)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown inventory source", "inventory_source: ftp\n"},
		{"bad log level", "log_level: chatty\n"},
		{"delay too large", "auto_advance_delay_ms: 60000\n"},
		{"phone prefix without plus", "phone_prefix: \"62\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			require.NoError(t, os.WriteFile(ProjectPath(), []byte(tt.content), 0644))

			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	require.False(t, Exists())

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("data_dir: .x\n"), 0644))
	require.True(t, Exists())
}

func TestWriteGlobal(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.DataDir = ".test"
	cfg.LogLevel = "debug"
	cfg.LogFile = "/tmp/tradein.log"
	cfg.InventorySource = InventoryFromNATS

	require.NoError(t, WriteGlobal(cfg))

	data, err := os.ReadFile(GlobalPath())
	require.NoError(t, err)

	content := string(data)
	for _, field := range []string{
		"data_dir: .test",
		"log_level: debug",
		"log_file: /tmp/tradein.log",
		"inventory_source: nats",
		"auto_advance: true",
	} {
		require.True(t, strings.Contains(content, field), "missing %q in:\n%s", field, content)
	}
}

func TestWriteProject_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.TaxonomyFile = "taxonomy.yml"
	cfg.Showrooms = []string{"Showroom Bogor"}
	require.NoError(t, WriteProject(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "taxonomy.yml", loaded.TaxonomyFile)
	require.Equal(t, []string{"Showroom Bogor"}, loaded.Showrooms)
}

func TestWriteProject_RejectsInvalid(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.DataDir = ""
	require.Error(t, WriteProject(cfg))
	require.NoFileExists(t, ProjectPath())
}
