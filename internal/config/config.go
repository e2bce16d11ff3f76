// README: Config loader with env defaults for HTTP, data paths, maps API and geocode cache.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type GeocacheConfig struct {
	Backend   string // "file" or "redis"
	Path      string
	RedisAddr string
}

type Config struct {
	HTTP struct {
		Addr string
	}
	Data struct {
		Dir string
	}
	Maps struct {
		// APIKey may be empty: geocoding and road routing are then skipped
		// and every distance comes from the matrix fallback ladder.
		APIKey string
	}
	Geocache  GeocacheConfig
	Itinerary struct {
		HubAddress string
	}
	Log struct {
		Level  string
		Format string
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FREIGHT_HTTP_ADDR", ":8080")
	cfg.Data.Dir = envOrDefault("FREIGHT_DATA_DIR", "data")
	cfg.Maps.APIKey = os.Getenv("MAPS_API_KEY")
	cfg.Geocache.Backend = envOrDefault("FREIGHT_GEOCACHE_BACKEND", "file")
	cfg.Geocache.Path = envOrDefault("FREIGHT_GEOCACHE_PATH", "data/geocode_cache.json")
	cfg.Geocache.RedisAddr = envOrDefault("FREIGHT_REDIS_ADDR", "localhost:6379")
	cfg.Itinerary.HubAddress = envOrDefault("FREIGHT_HUB_ADDRESS", "41400 Gebze Türkiye")
	cfg.Log.Level = envOrDefault("FREIGHT_LOG_LEVEL", "info")
	cfg.Log.Format = envOrDefault("FREIGHT_LOG_FORMAT", "console")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
