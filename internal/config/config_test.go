package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_DefaultWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := DefaultConfig()
	if cfg.Port != def.Port {
		t.Fatalf("Port = %d, want %d", cfg.Port, def.Port)
	}
	if cfg.Bind != def.Bind {
		t.Fatalf("Bind = %q, want %q", cfg.Bind, def.Bind)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Fatalf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	body := `{"port": 9090, "max_value_chars": 500, "disabled_tools": ["string_delete"]}`
	if err := os.WriteFile(configPath, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("Port = %d, want %d", cfg.Port, 9090)
	}
	if cfg.MaxValueChars != 500 {
		t.Fatalf("MaxValueChars = %d, want %d", cfg.MaxValueChars, 500)
	}
	if cfg.Bind != "127.0.0.1" {
		t.Fatalf("Bind = %q, want default", cfg.Bind)
	}
	if !reflect.DeepEqual(cfg.DisabledTools, []string{"string_delete"}) {
		t.Fatalf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoad_PathSettings(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	body := `{"allowed_paths": ["/srv/backups"], "allow_unsafe_paths": true, "DataDir": "/ignored"}`
	if err := os.WriteFile(configPath, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.AllowedPaths, []string{"/srv/backups"}) {
		t.Fatalf("AllowedPaths = %v", cfg.AllowedPaths)
	}
	if !cfg.AllowUnsafePaths {
		t.Fatalf("AllowUnsafePaths = false, want true")
	}
	if cfg.DataDir != tmpDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, tmpDir)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte(`{not json}`), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		base    *Config
		overlay *Config
		want    *Config
	}{
		{
			name:    "empty overlay keeps base",
			base:    &Config{Bind: "0.0.0.0", Port: 80, DBMaxOpenConns: 1},
			overlay: &Config{},
			want:    &Config{Bind: "0.0.0.0", Port: 80, DBMaxOpenConns: 1},
		},
		{
			name:    "overlay scalars win",
			base:    &Config{Bind: "0.0.0.0", Port: 80},
			overlay: &Config{Bind: " 10.0.0.1 ", Port: 81, DBMaxIdleConns: 2},
			want:    &Config{Bind: "10.0.0.1", Port: 81, DBMaxIdleConns: 2},
		},
		{
			name:    "disabled tools merged and deduplicated",
			base:    &Config{DisabledTools: []string{"string_delete", " string_list "}},
			overlay: &Config{DisabledTools: []string{"string_list", "string_get"}},
			want:    &Config{DisabledTools: []string{"string_delete", "string_list", "string_get"}},
		},
		{
			name:    "allowed paths merged and deduplicated",
			base:    &Config{AllowedPaths: []string{"/srv/a", "/srv/b"}},
			overlay: &Config{AllowedPaths: []string{" /srv/b ", "/srv/c"}},
			want:    &Config{AllowedPaths: []string{"/srv/a", "/srv/b", "/srv/c"}},
		},
		{
			name:    "unsafe paths stays on when base enables it",
			base:    &Config{AllowUnsafePaths: true},
			overlay: &Config{AllowUnsafePaths: false},
			want:    &Config{AllowUnsafePaths: true},
		},
		{
			name:    "data dir from overlay",
			base:    &Config{DataDir: "/a"},
			overlay: &Config{DataDir: "/b"},
			want:    &Config{DataDir: "/b"},
		},
		{
			name:    "origins replaced by overlay",
			base:    &Config{CORSAllowedOrigins: []string{"*"}},
			overlay: &Config{CORSAllowedOrigins: []string{"https://example.com"}},
			want:    &Config{CORSAllowedOrigins: []string{"https://example.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.base, tt.overlay)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
