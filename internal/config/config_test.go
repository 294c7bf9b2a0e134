package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"schedtex/internal/config"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOverviewGeometryMatchesPublishedLayout(t *testing.T) {
	g := config.DefaultConfig().Overview.Geometry
	if g.Height != 19 || g.DayWidth != 5.4 || g.StageWidth != 2.7 || g.DayPadding != 0.25 {
		t.Fatalf("unexpected overview geometry: %+v", g)
	}
	if g.TimeSize != `\tiny` || g.TextSize != `\footnotesize` {
		t.Fatalf("unexpected label sizes: %q %q", g.TimeSize, g.TextSize)
	}
	cfg := config.DefaultConfig()
	if cfg.Timeout != 20*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout)
	}
	if cfg.InsecureSkipVerify {
		t.Fatal("TLS verification should be on by default")
	}
	if cfg.Overview.Geometry.NFCLabels || cfg.Paired.Geometry.NFCLabels || cfg.Single.Geometry.NFCLabels {
		t.Fatal("labels should pass through unnormalized by default")
	}
	if cfg.Single.Geometry.MinEnd != 30 {
		t.Fatalf("single pass should seed min_end 30, got %d", cfg.Single.Geometry.MinEnd)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "schedtex.yaml")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != config.DefaultURL {
		t.Fatalf("unexpected url: %q", cfg.URL)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("unexpected permissions: %v", perm)
	}

	reloaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(cfg, reloaded); diff != "" {
		t.Fatalf("reloaded config differs (-first +second):\n%s", diff)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedtex.yaml")
	content := strings.Join([]string{
		"url: https://example.com/feed.json",
		"timeout: 5s",
		"insecure_skip_verify: true",
		"overview:",
		"  exclude_stage: \"\"",
		"  geometry:",
		"    height: 12",
		"paired:",
		"  enabled: false",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://example.com/feed.json" {
		t.Fatalf("unexpected url: %q", cfg.URL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Timeout)
	}
	if !cfg.InsecureSkipVerify {
		t.Fatal("expected insecure_skip_verify from file")
	}
	if cfg.Overview.ExcludeStage != "" {
		t.Fatalf("explicit empty exclude_stage should be kept, got %q", cfg.Overview.ExcludeStage)
	}
	if cfg.Overview.Geometry.Height != 12 || cfg.Overview.Geometry.StageWidth != 2.7 {
		t.Fatalf("unexpected overview geometry: %+v", cfg.Overview.Geometry)
	}
	if cfg.Paired.Enabled {
		t.Fatal("expected paired pass disabled")
	}
	if !cfg.Single.Enabled || cfg.Single.FilePattern != "mdjson-day%d.tex" {
		t.Fatalf("single pass defaults lost: %+v", cfg.Single)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedtex.yaml")
	if err := os.WriteFile(path, []byte("overview: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNormalizeFillsZeroGeometry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Normalize()

	if cfg.OutputDir != "." || cfg.Timeout != config.DefaultTimeout {
		t.Fatalf("unexpected top-level defaults: %+v", cfg)
	}
	if cfg.Overview.Geometry.StageWidth != 2.7 || cfg.Single.Geometry.StageWidth == 0 {
		t.Fatalf("geometry not filled: %+v / %+v", cfg.Overview.Geometry, cfg.Single.Geometry)
	}
	if cfg.Single.Geometry.MinEnd != 0 {
		t.Fatalf("min_end is explicit and must not be filled, got %d", cfg.Single.Geometry.MinEnd)
	}
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	cfg.Paired.FilePattern = "day.tex"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "paired.file_pattern") {
		t.Fatalf("expected file pattern error, got %v", err)
	}

	cfg = config.DefaultConfig()
	cfg.Overview.Enabled = false
	cfg.Paired.Enabled = false
	cfg.Single.Enabled = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when no pass is enabled")
	}
}
