package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extraction.Workers != 1 || cfg.Extraction.Language != "nl" || cfg.Extraction.RoleBase != "dep" {
		t.Fatalf("unexpected defaults %+v", cfg.Extraction)
	}
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
extraction:
  surface: true
  workers: 4
  language: en
database:
  url: postgres://file
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MP_WORKERS", "8")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"surface from file", cfg.Extraction.Surface, true},
		{"language from file", cfg.Extraction.Language, "en"},
		{"workers from env", cfg.Extraction.Workers, 8},
		{"database from env", cfg.Database.URL, "postgres://env"},
		{"port default", cfg.Server.Port, "8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("extraction:\n  nocoref: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Extraction.NoCoref {
		t.Fatal("expected nocoref from MP_CONFIG file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero workers", env: map[string]string{"MP_WORKERS": "0"}},
		{name: "unsupported role base", env: map[string]string{"MP_ROLE_BASE": "srl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRequire(t *testing.T) {
	if err := Require(map[string]string{"a": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := Require(map[string]string{"database.url": "", "s3.bucket": " ", "a": "x"})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err.Error() != "invalid configuration: missing database.url, s3.bucket" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRabbitMQURL(t *testing.T) {
	r := RabbitMQConfig{User: "u", Password: "p", Host: "h", Port: "1"}
	if r.URL() != "amqp://u:p@h:1/" {
		t.Fatalf("unexpected url %s", r.URL())
	}
}
