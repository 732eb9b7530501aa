package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{
  "server": "https://models.example.com/api",
  "timeoutSeconds": 60,
  "log": {"level": "debug", "format": "json"}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server != "https://models.example.com/api" {
		t.Errorf("Server = %q, want %q", cfg.Server, "https://models.example.com/api")
	}
	if cfg.TimeoutSeconds != 60 {
		t.Errorf("TimeoutSeconds = %d, want 60", cfg.TimeoutSeconds)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"server": "https://models.example.com/api"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "console")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"server": "https://from-file.example.com", "timeoutSeconds": 10}`)

	t.Setenv("MCLOUD_SERVER", "https://from-env.example.com")
	t.Setenv("MCLOUD_TIMEOUT", "90")
	t.Setenv("LOG_LEVEL", "trace")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server != "https://from-env.example.com" {
		t.Errorf("Server = %q, want env override", cfg.Server)
	}
	if cfg.TimeoutSeconds != 90 {
		t.Errorf("TimeoutSeconds = %d, want 90", cfg.TimeoutSeconds)
	}
	if cfg.Log.Level != "trace" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "trace")
	}
}

func TestLoad_IgnoresInvalidTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
	}{
		{name: "non-numeric", timeout: "soon"},
		{name: "zero", timeout: "0"},
		{name: "negative", timeout: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeConfig(t, dir, `{"server": "https://models.example.com", "timeoutSeconds": 15}`)
			t.Setenv("MCLOUD_TIMEOUT", tt.timeout)

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if cfg.TimeoutSeconds != 15 {
				t.Errorf("TimeoutSeconds = %d, want file value 15", cfg.TimeoutSeconds)
			}
		})
	}
}

func TestFindConfigFile_SearchesParents(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"server": "https://models.example.com"}`)

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}
	t.Chdir(nested)

	path, err := FindConfigFile()
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	want := filepath.Join(root, ConfigFileName)
	if resolved, _ := filepath.EvalSymlinks(path); resolved != "" {
		path = resolved
	}
	if wantResolved, _ := filepath.EvalSymlinks(want); wantResolved != "" {
		want = wantResolved
	}
	if path != want {
		t.Errorf("FindConfigFile() = %q, want %q", path, want)
	}
}

func TestLoadFromCurrentDir_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCLOUD_SERVER", "https://env-only.example.com")

	cfg, err := LoadFromCurrentDir()
	if err != nil {
		t.Fatalf("LoadFromCurrentDir() error = %v", err)
	}
	if cfg.Server != "https://env-only.example.com" {
		t.Errorf("Server = %q, want env value", cfg.Server)
	}
}

func TestLoadFromCurrentDir_MissingEverywhere(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCLOUD_SERVER", "")

	if _, err := LoadFromCurrentDir(); err == nil {
		t.Fatal("LoadFromCurrentDir() expected error with no config and no environment")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	in := DefaultConfig()
	in.Server = "https://models.example.com/api"
	if err := Save(path, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if out.Server != in.Server {
		t.Errorf("Server = %q, want %q", out.Server, in.Server)
	}
}
