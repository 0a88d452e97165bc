package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	JWT         JWTConfig       `mapstructure:"jwt"`
	CoinGecko   CoinGeckoConfig `mapstructure:"coingecko"`
	Currency    CurrencyConfig  `mapstructure:"currency"`
	Alerts      AlertsConfig    `mapstructure:"alerts"`
	Email       EmailConfig     `mapstructure:"email"`
	Tracing     TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	Host            string   `mapstructure:"host"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min"`
}

type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string `mapstructure:"migrations_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type JWTConfig struct {
	Secret    string `mapstructure:"secret"`
	AccessTTL int    `mapstructure:"access_token_ttl"`
	Issuer    string `mapstructure:"issuer"`
}

// CoinGeckoConfig configures the market data feed client
type CoinGeckoConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`

	// Cache TTLs in minutes, per endpoint class
	ListingsTTL int `mapstructure:"listings_ttl"`
	GlobalTTL   int `mapstructure:"global_ttl"`
	TrendingTTL int `mapstructure:"trending_ttl"`
	CoinTTL     int `mapstructure:"coin_ttl"`
	HistoryTTL  int `mapstructure:"history_ttl"`
}

// CurrencyConfig configures the display-currency conversion service
type CurrencyConfig struct {
	RatesTTLMinutes int    `mapstructure:"rates_ttl_minutes"`
	BaseCurrency    string `mapstructure:"base_currency"`
}

// AlertsConfig configures the price alert sweep worker
type AlertsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Schedule     string `mapstructure:"schedule"`
	SweepTimeout int    `mapstructure:"sweep_timeout"`
}

type EmailConfig struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type TracingConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	overrideFromEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Build database URL if not provided
	if config.Database.URL == "" {
		config.Database.URL = fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			config.Database.User,
			config.Database.Password,
			config.Database.Host,
			config.Database.Port,
			config.Database.Name,
			config.Database.SSLMode,
		)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("server.rate_limit_per_min", 100)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "coinfolio")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 300)
	viper.SetDefault("database.migrations_path", "migrations")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// JWT defaults
	viper.SetDefault("jwt.access_token_ttl", 2592000) // 30 days
	viper.SetDefault("jwt.issuer", "coinfolio")

	// CoinGecko defaults
	viper.SetDefault("coingecko.base_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("coingecko.timeout_seconds", 10)
	viper.SetDefault("coingecko.max_retries", 3)
	viper.SetDefault("coingecko.listings_ttl", 2)
	viper.SetDefault("coingecko.global_ttl", 2)
	viper.SetDefault("coingecko.trending_ttl", 5)
	viper.SetDefault("coingecko.coin_ttl", 2)
	viper.SetDefault("coingecko.history_ttl", 10)

	// Currency defaults
	viper.SetDefault("currency.rates_ttl_minutes", 10)
	viper.SetDefault("currency.base_currency", "usd")

	// Alerts defaults
	viper.SetDefault("alerts.enabled", true)
	viper.SetDefault("alerts.schedule", "@every 2m")
	viper.SetDefault("alerts.sweep_timeout", 60)

	// Email defaults
	viper.SetDefault("email.from_email", "alerts@coinfolio.app")
	viper.SetDefault("email.from_name", "Coinfolio Alerts")

	// Tracing defaults
	viper.SetDefault("tracing.otlp_endpoint", "")
	viper.SetDefault("tracing.sample_ratio", 1.0)
}

func overrideFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			viper.Set("server.port", p)
		}
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		viper.Set("database.url", dbURL)
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		viper.Set("jwt.secret", jwtSecret)
	}

	if key := os.Getenv("COINGECKO_API_KEY"); key != "" {
		viper.Set("coingecko.api_key", key)
	}

	if key := os.Getenv("SENDGRID_API_KEY"); key != "" {
		viper.Set("email.api_key", key)
	}

	if endpoint := os.Getenv("OTLP_ENDPOINT"); endpoint != "" {
		viper.Set("tracing.otlp_endpoint", endpoint)
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		var cleaned []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			viper.Set("server.allowed_origins", cleaned)
		}
	}
}

func validate(config *Config) error {
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if config.Database.URL == "" && (config.Database.Host == "" || config.Database.Name == "") {
		return fmt.Errorf("database configuration is incomplete")
	}

	if config.CoinGecko.BaseURL == "" {
		return fmt.Errorf("coingecko base URL is required")
	}

	return nil
}
