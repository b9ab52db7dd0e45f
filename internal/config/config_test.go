package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedPath != "" {
		t.Errorf("Expected empty feed path, got %q", cfg.FeedPath)
	}
	if cfg.CachePath != "" {
		t.Errorf("Expected empty cache path, got %q", cfg.CachePath)
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("Unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("feedPath: /data/unimod.xml.gz\ncachePath: /data/unimod.db\nlogging:\n  level: debug\n")
	if err := os.WriteFile(filepath.Join(dir, "unimoddb.yaml"), content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.FeedPath != "/data/unimod.xml.gz" {
		t.Errorf("Expected feed path from file, got %q", cfg.FeedPath)
	}
	if cfg.CachePath != "/data/unimod.db" {
		t.Errorf("Expected cache path from file, got %q", cfg.CachePath)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Logging.Level)
	}
	// Unset fields keep their defaults
	if cfg.Logging.Format != "human" {
		t.Errorf("Expected default format, got %q", cfg.Logging.Format)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("feedPath: /data/unimod.xml\n")
	if err := os.WriteFile(filepath.Join(dir, "unimoddb.yaml"), content, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("UNIMODDB_FEED_PATH", "/override/unimod.xml")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FeedPath != "/override/unimod.xml" {
		t.Errorf("Expected env override, got %q", cfg.FeedPath)
	}
}

func TestResolveFeedPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolveFeedPath("/bundle"); got != filepath.Join("/bundle", DefaultFeedName) {
		t.Errorf("Expected bundled default feed, got %q", got)
	}

	cfg.FeedPath = "/data/unimod.xml"
	if got := cfg.ResolveFeedPath("/bundle"); got != "/data/unimod.xml" {
		t.Errorf("Expected configured feed path, got %q", got)
	}
}
