package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Service configuration assembled from .env, the process environment and an
// optional YAML file (CONFIG_FILE). Environment values win over the file.
type Config struct {
	Port              string            `yaml:"port"`
	MetricsAddr       string            `yaml:"metrics_addr"`
	LogLevel          string            `yaml:"log_level"`
	DatabaseURL       string            `yaml:"database_url"`
	CatalogDBPath     string            `yaml:"catalog_db_path"`
	RouteCacheBackend string            `yaml:"route_cache_backend"`
	RedisAddr         string            `yaml:"redis_addr"`
	KafkaBrokers      []string          `yaml:"kafka_brokers"`
	KafkaRunTopic     string            `yaml:"kafka_run_topic"`
	Settings          map[string]string `yaml:"settings"`
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              "8080",
		MetricsAddr:       ":9090",
		LogLevel:          "info",
		CatalogDBPath:     "data/catalog.db",
		RouteCacheBackend: "postgres",
		KafkaRunTopic:     "voya.schedule.runs",
		Settings:          map[string]string{},
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = Get("PORT", cfg.Port)
	cfg.MetricsAddr = Get("METRICS_ADDR", cfg.MetricsAddr)
	cfg.LogLevel = Get("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseURL = Get("DATABASE_URL", cfg.DatabaseURL)
	cfg.CatalogDBPath = Get("CATALOG_DB_PATH", cfg.CatalogDBPath)
	cfg.RouteCacheBackend = strings.ToLower(Get("ROUTE_CACHE_BACKEND", cfg.RouteCacheBackend))
	cfg.RedisAddr = Get("REDIS_ADDR", cfg.RedisAddr)
	cfg.KafkaRunTopic = Get("KAFKA_RUN_TOPIC", cfg.KafkaRunTopic)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitList(brokers)
	}

	// Settings keys may also be overridden from the environment, e.g. LOGIC_TIMEZONE.
	for _, key := range SettingKeys {
		if v := os.Getenv(strings.ToUpper(key)); v != "" {
			cfg.Settings[key] = v
		}
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("load config: DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if c.Settings == nil {
		c.Settings = map[string]string{}
	}

	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
