package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	settings, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if settings.BdBin != "bd" {
		t.Errorf("BdBin = %q, want bd", settings.BdBin)
	}
	if settings.GatewayTimeout != 30*time.Second {
		t.Errorf("GatewayTimeout = %v, want 30s", settings.GatewayTimeout)
	}
	if settings.CardinalityLimit != 20 {
		t.Errorf("CardinalityLimit = %d, want 20", settings.CardinalityLimit)
	}
	if len(settings.ExcludedStatuses) != 1 || settings.ExcludedStatuses[0] != "closed" {
		t.Errorf("ExcludedStatuses = %v, want [closed]", settings.ExcludedStatuses)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := "bd_bin: /opt/bd\ngateway_timeout: 5s\ncardinality_limit: 50\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if settings.BdBin != "/opt/bd" {
		t.Errorf("BdBin = %q, want /opt/bd", settings.BdBin)
	}
	if settings.GatewayTimeout != 5*time.Second {
		t.Errorf("GatewayTimeout = %v, want 5s", settings.GatewayTimeout)
	}
	if settings.CardinalityLimit != 50 {
		t.Errorf("CardinalityLimit = %d, want 50", settings.CardinalityLimit)
	}
	// Untouched keys keep their defaults.
	if settings.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", settings.ListenAddr)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte("{bd_bin::"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(dir); err == nil {
		t.Error("LoadFrom() accepted a malformed settings file")
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("BEADBOARD_BD_BIN", "/env/bd")

	settings, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if settings.BdBin != "/env/bd" {
		t.Errorf("BdBin = %q, want /env/bd from environment", settings.BdBin)
	}
}
