package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	MongoURI    string
	MongoDB     string
	StoreDriver string

	RedisAddr string
	RedisPass string
	CacheTTL  time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	HTTPPort string
	LogLevel string
	NATSURL  string

	CORSAllowedOrigins []string

	RateLimitEnabled  bool
	RateLimitCapacity int
	RateLimitWindow   time.Duration

	// SeedAdmin* provision an admin account when the memory store is used.
	SeedAdminEmail    string
	SeedAdminPassword string

	// Defaulted lists the keys that were not set and fell back to defaults.
	Defaulted []string
}

func Load() *Config {
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		MongoURI:    l.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     l.str("MONGO_DB", "cinecomments"),
		StoreDriver: strings.ToLower(l.str("STORE_DRIVER", StoreMongo)),

		RedisAddr: l.str("REDIS_ADDR", ""),
		RedisPass: l.str("REDIS_PASSWORD", ""),
		CacheTTL:  l.duration("CACHE_TTL", 60*time.Second),

		JWTSecret: l.str("JWT_SECRET", "super-secret"),
		JWTTTL:    l.duration("JWT_TTL", 24*time.Hour),

		HTTPPort: l.str("HTTP_PORT", "4000"),
		LogLevel: l.str("LOG_LEVEL", "info"),
		NATSURL:  l.str("NATS_URL", ""),

		CORSAllowedOrigins: splitList(l.str("CORS_ALLOWED_ORIGINS", "*")),

		RateLimitEnabled:  l.bool("RATE_LIMIT_ENABLED", true),
		RateLimitCapacity: l.int("RATE_LIMIT_CAPACITY", 20),
		RateLimitWindow:   l.duration("RATE_LIMIT_WINDOW", time.Minute),

		SeedAdminEmail:    strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),
		SeedAdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
	cfg.Defaulted = l.defaulted
	return cfg
}

type loader struct {
	defaulted []string
}

func (l *loader) str(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		l.defaulted = append(l.defaulted, key)
		return def
	}
	return v
}

func (l *loader) int(key string, def int) int {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.defaulted = append(l.defaulted, key)
		return def
	}
	return n
}

func (l *loader) bool(key string, def bool) bool {
	switch strings.ToLower(l.str(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func (l *loader) duration(key string, def time.Duration) time.Duration {
	v := l.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		l.defaulted = append(l.defaulted, key)
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
