package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clipnote/clipnote/internal/ingest"
	"github.com/clipnote/clipnote/internal/logger"
	"github.com/clipnote/clipnote/internal/notes"
	"github.com/clipnote/clipnote/internal/notify"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	RedisClient *redis.Client      // ping target for readiness
	Repo        *notes.Repository  // note data access
	Controller  *ingest.Controller // paste pipeline entry point
	Notifier    *notify.Broadcaster

	MediaRoot       string   // directory served under /media/
	AllowedOrigins  []string // CORS origins for the web client
	TrustProxy      bool     // true when behind a trusted reverse proxy
	RateLimitBurst  int      // per-IP burst for the API
	RateLimitPerMin int      // per-IP refill per minute
}
