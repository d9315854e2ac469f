package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invgui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{}, "")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Database:        "invgui.db",
		LogLevel:        "info",
		Format:          "text",
		MaxHops:         64,
		DefaultCapacity: 64,
	}, cfg)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFrom_Environment(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"INVGUI_DATABASE":  "/tmp/x.db",
		"INVGUI_LOG_LEVEL": "debug",
		"INVGUI_MAX_HOPS":  "8",
		"DATABASE":         "ignored.db",
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Database)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, 8, cfg.MaxHops)
}

func TestLoadFrom_FileOverlaysEnvironment(t *testing.T) {
	path := writeFile(t, "format: json\ndefault_capacity: 16\n")

	cfg, err := LoadFrom(map[string]string{"INVGUI_DATABASE": "env.db", "INVGUI_FORMAT": "text"}, path)
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.Database, "fields absent from the file keep env values")
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 16, cfg.DefaultCapacity)
}

func TestLoadFrom_EmptyFile(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{}, writeFile(t, "\n"))
	require.NoError(t, err)
	assert.Equal(t, "invgui.db", cfg.Database)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr string
	}{
		{name: "unknown field", file: "colour: red\n", wantErr: "field colour not found"},
		{name: "bad env int", env: map[string]string{"INVGUI_MAX_HOPS": "many"}, wantErr: "parse env"},
		{name: "bad level", env: map[string]string{"INVGUI_LOG_LEVEL": "loud"}, wantErr: `unknown log level "loud"`},
		{name: "bad format", file: "format: xml\n", wantErr: "format must be text or json"},
		{name: "zero hops", file: "max_hops: 0\n", wantErr: "max_hops must be positive"},
		{name: "zero capacity", file: "default_capacity: 0\n", wantErr: "default_capacity must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := tt.env
			if environ == nil {
				environ = map[string]string{}
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			_, err := LoadFrom(environ, path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(map[string]string{}, filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open config")
}
