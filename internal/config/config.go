package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	DatabaseURL     string        `envconfig:"DATABASE_URL" default:""`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"./data/drawboard.db"`
	JWTSecret       string        `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AssetDir        string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	LibraryDir      string        `envconfig:"LIBRARY_DIR" default:"./data/library"`
	AllowedOrigins  string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	GridSize        float64       `envconfig:"GRID_SIZE" default:"20"`
	PersistDebounce time.Duration `envconfig:"PERSIST_DEBOUNCE" default:"1s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
