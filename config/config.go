package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Observability ObservabilityConfig `yaml:"observability"`
	Achievements  AchievementsConfig  `yaml:"achievements"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Career        CareerConfig        `yaml:"career"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds the outbound notification connection. An empty URL disables
// forwarding of engagement notifications.
type NATSConfig struct {
	URL                 string `yaml:"url"`
	NKeySeed            string `yaml:"nkey_seed"`
	NotificationSubject string `yaml:"notification_subject"`
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// ObservabilityConfig holds configuration for logging and metrics.
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
	ServiceName string `yaml:"service_name"`
}

// AchievementsConfig overrides tier thresholds per category, keyed by
// category id and then tier name.
type AchievementsConfig struct {
	Thresholds map[string]map[string]float64 `yaml:"thresholds"`
}

// LeaderboardConfig holds the aggregation settings.
type LeaderboardConfig struct {
	TierWeights     map[string]int `yaml:"tier_weights"`
	QueueEnabled    bool           `yaml:"queue_enabled"`
	DefaultPageSize int            `yaml:"default_page_size"`
	MaxPageSize     int            `yaml:"max_page_size"`
}

// CareerConfig holds projection chart sizing and scenario limits.
type CareerConfig struct {
	ChartWidth   int `yaml:"chart_width"`
	ChartHeight  int `yaml:"chart_height"`
	MaxDecisions int `yaml:"max_decisions"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("RANKING_QUEUE_ENABLED"); v != "" {
		cfg.Leaderboard.QueueEnabled = v == "true"
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	// NATS is optional; notifications are dropped when unset
	cfg.NATS.URL = os.Getenv("NATS_URL")
	cfg.NATS.NKeySeed = os.Getenv("NATS_NKEY_SEED")
	cfg.NATS.NotificationSubject = os.Getenv("NATS_NOTIFICATION_SUBJECT")

	cfg.HTTP.Address = os.Getenv("HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_RATE_LIMIT value: %v", err)
		}
		cfg.HTTP.RateLimit = f
	}

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}
	cfg.JWT.Issuer = os.Getenv("JWT_ISSUER")

	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")

	cfg.Leaderboard.QueueEnabled = os.Getenv("RANKING_QUEUE_ENABLED") == "true"

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values with the service defaults.
func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 20
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 40
	}
	if c.NATS.NotificationSubject == "" {
		c.NATS.NotificationSubject = "hirelane.notifications.engagement"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "hirelane-engage"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Leaderboard.DefaultPageSize <= 0 {
		c.Leaderboard.DefaultPageSize = 50
	}
	if c.Leaderboard.MaxPageSize <= 0 {
		c.Leaderboard.MaxPageSize = 200
	}
	if c.Career.ChartWidth <= 0 {
		c.Career.ChartWidth = 800
	}
	if c.Career.ChartHeight <= 0 {
		c.Career.ChartHeight = 400
	}
	if c.Career.MaxDecisions <= 0 {
		c.Career.MaxDecisions = 50
	}
}

// ShutdownTimeout is the grace period given to the HTTP server and workers.
func (c *Config) ShutdownTimeout() time.Duration {
	return 15 * time.Second
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
