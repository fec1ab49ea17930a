package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CLIPNOTE_REDIS_ADDR", "localhost:6379")
	t.Setenv("CLIPNOTE_PUBLIC_BASE_URL", "https://notes.example")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.EnrichTimeout != 5*time.Second {
		t.Errorf("EnrichTimeout = %v, want 5s", cfg.EnrichTimeout)
	}
	if cfg.PasteQueueSize != 16 {
		t.Errorf("PasteQueueSize = %d, want 16", cfg.PasteQueueSize)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0", cfg.RedisDB)
	}
}

func TestLoadTrimsBaseURLTrailingSlash(t *testing.T) {
	t.Setenv("CLIPNOTE_REDIS_ADDR", "localhost:6379")
	t.Setenv("CLIPNOTE_PUBLIC_BASE_URL", "https://notes.example/")

	cfg := Load()

	if cfg.PublicBaseURL != "https://notes.example" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
}

func TestLoadPanicsWithoutRedisAddr(t *testing.T) {
	t.Setenv("CLIPNOTE_REDIS_ADDR", "")
	t.Setenv("CLIPNOTE_PUBLIC_BASE_URL", "https://notes.example")

	defer func() {
		if recover() == nil {
			t.Error("Load did not panic without redis addr")
		}
	}()
	Load()
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipnote.yaml")
	body := []byte(`
listen_port: ":9090"
public_base_url: https://file.example
redis_addr: file-redis:6379
redis_db: 3
allowed_origins:
  - https://app.example
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CLIPNOTE_CONFIG_FILE", path)
	t.Setenv("CLIPNOTE_REDIS_ADDR", "")
	t.Setenv("CLIPNOTE_PUBLIC_BASE_URL", "")

	cfg := Load()

	if cfg.ListenPort != ":9090" {
		t.Errorf("ListenPort = %q, want :9090", cfg.ListenPort)
	}
	if cfg.RedisAddr != "file-redis:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://app.example"}) {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipnote.yaml")
	body := []byte("redis_addr: file-redis:6379\npublic_base_url: https://file.example\nlog_level: debug\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CLIPNOTE_CONFIG_FILE", path)
	t.Setenv("CLIPNOTE_REDIS_ADDR", "env-redis:6379")
	t.Setenv("CLIPNOTE_PUBLIC_BASE_URL", "https://env.example")
	t.Setenv("CLIPNOTE_LOG_LEVEL", "warn")

	cfg := Load()

	if cfg.RedisAddr != "env-redis:6379" {
		t.Errorf("RedisAddr = %q, env should win", cfg.RedisAddr)
	}
	if cfg.PublicBaseURL != "https://env.example" {
		t.Errorf("PublicBaseURL = %q, env should win", cfg.PublicBaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, env should win", cfg.LogLevel)
	}
}

func TestLoadFilePanicsOnMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("listen_port: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("loadFile did not panic on malformed YAML")
		}
	}()
	loadFile(path)
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://a.example", []string{"https://a.example"}},
		{"spaces and quotes", ` "https://a.example" , 'https://b.example' `, []string{"https://a.example", "https://b.example"}},
		{"skips empty parts", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CLIPNOTE_TEST_STR", "value")
	t.Setenv("CLIPNOTE_TEST_INT", "42")
	t.Setenv("CLIPNOTE_TEST_BAD_INT", "nope")
	t.Setenv("CLIPNOTE_TEST_DUR", "250ms")
	t.Setenv("CLIPNOTE_TEST_BOOL", "true")

	if got := getenv("CLIPNOTE_TEST_STR", "def"); got != "value" {
		t.Errorf("getenv = %q", got)
	}
	if got := getenv("CLIPNOTE_TEST_MISSING", "def"); got != "def" {
		t.Errorf("getenv default = %q", got)
	}
	if got := getenvInt("CLIPNOTE_TEST_INT", 7); got != 42 {
		t.Errorf("getenvInt = %d", got)
	}
	if got := getenvInt("CLIPNOTE_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getenvInt malformed = %d, want default", got)
	}
	if got := mustDuration("CLIPNOTE_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Errorf("mustDuration = %v", got)
	}
	if got := mustBool("CLIPNOTE_TEST_BOOL", false); got != true {
		t.Errorf("mustBool = %v", got)
	}
}
