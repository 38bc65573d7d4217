package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aurceive/drop_viewer/internal/config"
	"github.com/aurceive/drop_viewer/internal/dataset"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_DiscoversFromSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "data: http://localhost:9000/equipment_data.json\nlocale: en\n")
	sub := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfg, err := config.Load(sub, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Root != root {
		t.Fatalf("unexpected root: want %q got %q", root, cfg.Root)
	}
	if cfg.Data != "http://localhost:9000/equipment_data.json" || cfg.Locale != "en" {
		t.Fatalf("unexpected config: %+v", cfg.Config)
	}
	if cfg.Listen != config.DefaultListen || cfg.DefaultSort != "name" {
		t.Fatalf("defaults not applied: %+v", cfg.Config)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "" {
		t.Fatalf("expected no config path, got %q", cfg.Path)
	}
	if cfg.Data != dataset.DefaultLocation || cfg.Locale != config.DefaultLocale {
		t.Fatalf("unexpected defaults: %+v", cfg.Config)
	}
	if err := config.Validate(cfg.Config); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestLoad_RejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "data: x.json\nitems_per_page: 20\n")
	_, err := config.Load(dir, p)
	if err == nil || !strings.Contains(err.Error(), `unsupported key "items_per_page"`) {
		t.Fatalf("expected unsupported key error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg.Config
	bad.DefaultSort = "weight"
	if err := config.Validate(bad); err == nil {
		t.Fatalf("expected default_sort error")
	}

	bad = cfg.Config
	bad.Data = "ftp://example.com/x.json"
	if err := config.Validate(bad); err == nil {
		t.Fatalf("expected data error")
	}

	ok := cfg.Config
	ok.DefaultSort = "probabilityValue"
	if err := config.Validate(ok); err != nil {
		t.Fatalf("alias sort key must validate: %v", err)
	}
}

func TestLoaded_Abs(t *testing.T) {
	l := config.Loaded{Root: filepath.FromSlash("/srv/app")}
	if got, want := l.Abs("output"), filepath.Join(l.Root, "output"); got != want {
		t.Fatalf("want %q got %q", want, got)
	}
	abs := filepath.FromSlash("/tmp/out")
	if got := l.Abs(abs); got != abs {
		t.Fatalf("absolute path must be kept, got %q", got)
	}
	if got := l.Abs(""); got != "" {
		t.Fatalf("empty path must stay empty, got %q", got)
	}
}
