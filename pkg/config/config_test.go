package config

import (
	"path/filepath"
	"testing"
)

func TestInitConfigCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scribe.yaml")

	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Fatalf("cfg.Port = %d want %d", cfg.Port, DefaultConfig().Port)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *reloaded != *cfg {
		t.Fatalf("reloaded %+v want %+v", reloaded, cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scribe.yaml")

	cfg := &Config{IP: "0.0.0.0", Port: 9090, StoreURL: "mongodb://localhost:27017"}
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("got %+v want %+v", got, cfg)
	}
}

func TestUsesDocStore(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"", false},
		{"mongodb://localhost:27017", true},
		{"mongodb+srv://cluster0.example.net", true},
	}
	for _, c := range cases {
		cfg := &Config{StoreURL: c.url}
		if got := cfg.UsesDocStore(); got != c.want {
			t.Fatalf("UsesDocStore(%q) = %v want %v", c.url, got, c.want)
		}
	}
}
