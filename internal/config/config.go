package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PublicBaseURL  string        // external base URL for media links (ex: https://notes.domain.ext)
	MediaDir       string        // directory where uploaded blobs are stored
	EnrichTimeout  time.Duration // bound on page-title fetches (default: 5s)
	PasteQueueSize int           // pending paste events before overflow (default: 16)
	AllowedOrigins []string      // CORS origins for the web client

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisWarnThreshold  int           // warn after this many attempts

	// Rate limiting for the public API
	RateLimitBurst  int // token bucket burst per client IP
	RateLimitPerMin int // token refill per client IP per minute
	TrustProxy      bool
}

// fileConfig is the optional YAML overlay (CLIPNOTE_CONFIG_FILE).
// Environment variables always win over file values.
type fileConfig struct {
	ListenPort     string   `yaml:"listen_port"`
	LogLevel       string   `yaml:"log_level"`
	PublicBaseURL  string   `yaml:"public_base_url"`
	MediaDir       string   `yaml:"media_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RedisAddr      string   `yaml:"redis_addr"`
	RedisDB        *int     `yaml:"redis_db"`
}

func Load() *Config {
	file := loadFile(os.Getenv("CLIPNOTE_CONFIG_FILE"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CLIPNOTE_LISTEN_PORT", or(file.ListenPort, ":8080")),
		ShutdownTimeout: mustDuration("CLIPNOTE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CLIPNOTE_LOG_LEVEL", or(file.LogLevel, "info")),
		PrettyLog: mustBool("CLIPNOTE_PRETTY_LOG", true),

		// Capture pipeline
		PublicBaseURL:  getenv("CLIPNOTE_PUBLIC_BASE_URL", file.PublicBaseURL),
		MediaDir:       getenv("CLIPNOTE_MEDIA_DIR", or(file.MediaDir, "/var/lib/clipnote/media")),
		EnrichTimeout:  mustDuration("CLIPNOTE_ENRICH_TIMEOUT", 5*time.Second),
		PasteQueueSize: getenvInt("CLIPNOTE_PASTE_QUEUE_SIZE", 16),
		AllowedOrigins: getenvSlice("CLIPNOTE_ALLOWED_ORIGINS", file.AllowedOrigins),

		// Redis settings
		RedisAddr:           getenv("CLIPNOTE_REDIS_ADDR", file.RedisAddr),
		RedisUser:           getenv("CLIPNOTE_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("CLIPNOTE_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("CLIPNOTE_REDIS_DB", orInt(file.RedisDB, 0)),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access
		RateLimitBurst:  getenvInt("CLIPNOTE_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("CLIPNOTE_RATE_LIMIT_PER_MIN", 120),
		TrustProxy:      mustBool("CLIPNOTE_TRUST_PROXY", false),
	}

	if cfg.RedisAddr == "" {
		panic("❌ FATAL: CLIPNOTE_REDIS_ADDR is not set (env or config file)")
	}
	if cfg.PublicBaseURL == "" {
		panic("❌ FATAL: CLIPNOTE_PUBLIC_BASE_URL is not set (env or config file)")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// loadFile parses the optional YAML config file. A missing path is fine;
// an unreadable or malformed file is fatal so a typo never runs half-configured.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("❌ FATAL: cannot parse config file %s: %v", path, err))
	}
	return fc
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		return splitAndTrim(v)
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
