package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Images int    `env:"VKREPLAY_TEST_IMAGES" envDefault:"2"`
	Mode   string `env:"VKREPLAY_TEST_MODE" envDefault:"fifo"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Images != 2 || cfg.Mode != "fifo" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("VKREPLAY_TEST_IMAGES", "3")
	t.Setenv("VKREPLAY_TEST_MODE", "mailbox")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Images != 3 || cfg.Mode != "mailbox" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("VKREPLAY_TEST_IMAGES", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
