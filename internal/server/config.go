package server

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/cache"
)

// DefaultPort is used when neither a flag nor LAYOUT_PORT sets one.
const DefaultPort = 8080

// Config holds the server settings.
type Config struct {
	Port      int
	CacheDir  string
	RedisAddr string
	RedisPass string
	RedisDB   int
	Version   string
}

// ConfigFromEnv reads settings from the environment after loading envFile
// when it exists. A missing or unreadable file is ignored.
//
//	LAYOUT_PORT       listen port
//	LAYOUT_CACHE_DIR  file cache directory
//	REDIS_HOST        enables the Redis cache (REDIS_PORT, REDIS_PASS, REDIS_DB)
func ConfigFromEnv(envFile string) Config {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}
	cfg := Config{Port: DefaultPort, CacheDir: os.Getenv("LAYOUT_CACHE_DIR")}
	if v := os.Getenv("LAYOUT_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.RedisAddr = host + ":" + port
		cfg.RedisPass = os.Getenv("REDIS_PASS")
		if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil && n >= 0 {
			cfg.RedisDB = n
		}
	}
	return cfg
}

// CacheConfig picks Redis when an address is set, then a file cache, then
// no cache.
func (c Config) CacheConfig() cache.Config {
	switch {
	case c.RedisAddr != "":
		return cache.Config{Backend: cache.BackendRedis, RedisAddr: c.RedisAddr, RedisPassword: c.RedisPass, RedisDB: c.RedisDB}
	case c.CacheDir != "":
		return cache.Config{Backend: cache.BackendFile, Dir: c.CacheDir}
	default:
		return cache.Config{Backend: cache.BackendNone}
	}
}
