package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()

	path := filepath.Join(dir, "duk.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
	if cfg.Output.Format != "source" || cfg.Output.Color != "auto" {
		t.Fatalf("unexpected output defaults %+v", cfg.Output)
	}
	if cfg.REPL.Prompt != "duk> " || cfg.REPL.Continuation != "...> " {
		t.Fatalf("unexpected repl defaults %+v", cfg.REPL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("DUK_TEST_DIR", "/tmp/duk")

	path := writeConfig(t, t.TempDir(), `
[log]
level = "debug"
format = "json"

[output]
format = "yaml"

[repl]
prompt = "> "
history_file = "$DUK_TEST_DIR/history"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Output.Format != "yaml" {
		t.Fatalf("expected yaml output, got %q", cfg.Output.Format)
	}
	if cfg.Output.Color != "auto" {
		t.Fatalf("expected color default to be applied, got %q", cfg.Output.Color)
	}
	if cfg.REPL.Prompt != "> " || cfg.REPL.Continuation != "...> " {
		t.Fatalf("unexpected repl config %+v", cfg.REPL)
	}
	if cfg.REPL.HistoryFile != "/tmp/duk/history" {
		t.Fatalf("expected expanded history path, got %q", cfg.REPL.HistoryFile)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[log\nlevel = 1", "failed to parse config"},
		{"unknown key", "[log]\nlevle = \"debug\"", "unknown config keys"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level"},
		{"bad format", "[output]\nformat = \"xml\"", "output.format"},
		{"bad color", "[output]\ncolor = \"sometimes\"", "output.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)

			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestResolveOrder(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvVar, "")

	cfg, path, err := Resolve("")
	if err != nil || path != "" {
		t.Fatalf("expected defaults without any file, got %q (%v)", path, err)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected default config, got %+v", cfg.Log)
	}

	writeConfig(t, dir, "[log]\nlevel = \"info\"\n")
	cfg, path, err = Resolve("")
	if err != nil || path != DefaultFile || cfg.Log.Level != "info" {
		t.Fatalf("expected ./duk.toml to be loaded, got %q %+v (%v)", path, cfg, err)
	}

	envDir := t.TempDir()
	envPath := writeConfig(t, envDir, "[log]\nlevel = \"error\"\n")
	t.Setenv(EnvVar, envPath)
	cfg, path, err = Resolve("")
	if err != nil || path != envPath || cfg.Log.Level != "error" {
		t.Fatalf("expected $%s to win over ./duk.toml, got %q (%v)", EnvVar, path, err)
	}

	explicit := writeConfig(t, t.TempDir(), "[log]\nlevel = \"debug\"\n")
	cfg, path, err = Resolve(explicit)
	if err != nil || path != explicit || cfg.Log.Level != "debug" {
		t.Fatalf("expected explicit path to win, got %q (%v)", path, err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Fatalf("%q: expected %v, got %v (%v)", name, want, got, err)
		}
	}

	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
}
