package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zatekoja/dentalclinic/pkg/secrets"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Clinic    ClinicConfig
	Evolution EvolutionConfig
	Webhook   WebhookConfig
	OTEL      OTELConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// ClinicConfig holds the booking policy of the clinic
type ClinicConfig struct {
	Name        string
	OpenHour    int
	CloseHour   int
	SlotMinutes int
	Timezone    string
	LockWait    time.Duration
	LockTTL     time.Duration
}

// EvolutionConfig holds the WhatsApp gateway configuration
type EvolutionConfig struct {
	URL          string
	APIKey       string
	InstanceName string
	Timeout      time.Duration
}

// WebhookConfig holds the automation webhook configuration
type WebhookConfig struct {
	URL     string
	Timeout time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment wins. When
// VAULT_ENABLED is set the configured secret is exported before reading.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		return nil, fmt.Errorf("failed to load vault secrets: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 3001),
			AllowedOrigins:  getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "dental_clinic"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 3*time.Second),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Clinic: ClinicConfig{
			Name:        getEnv("CLINIC_NAME", "عيادة الأسنان"),
			OpenHour:    getEnvAsInt("CLINIC_OPEN_HOUR", 9),
			CloseHour:   getEnvAsInt("CLINIC_CLOSE_HOUR", 18),
			SlotMinutes: getEnvAsInt("CLINIC_SLOT_MINUTES", 30),
			Timezone:    getEnv("CLINIC_TIMEZONE", "Local"),
			LockWait:    getEnvAsDuration("BOOKING_LOCK_WAIT", 2*time.Second),
			LockTTL:     getEnvAsDuration("BOOKING_LOCK_TTL", 10*time.Second),
		},
		Evolution: EvolutionConfig{
			URL:          getEnv("EVOLUTION_API_URL", ""),
			APIKey:       getEnv("EVOLUTION_API_KEY", ""),
			InstanceName: getEnv("EVOLUTION_INSTANCE_NAME", "dental_clinic"),
			Timeout:      getEnvAsDuration("EVOLUTION_TIMEOUT", 10*time.Second),
		},
		Webhook: WebhookConfig{
			URL:     getEnv("N8N_WEBHOOK_URL", ""),
			Timeout: getEnvAsDuration("N8N_WEBHOOK_TIMEOUT", 5*time.Second),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "dental-clinic-api"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "development"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Clinic.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the working hours produce at least one slot and the
// timezone can be resolved
func (c *ClinicConfig) Validate() error {
	if c.OpenHour < 0 || c.CloseHour > 24 || c.OpenHour >= c.CloseHour {
		return fmt.Errorf("invalid clinic hours: open=%d close=%d", c.OpenHour, c.CloseHour)
	}
	if c.SlotMinutes <= 0 || c.SlotMinutes > (c.CloseHour-c.OpenHour)*60 {
		return fmt.Errorf("invalid clinic slot minutes: %d", c.SlotMinutes)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the clinic timezone
func (c *ClinicConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// MigrationURL returns the connection URL used by the migrator
func (c *DatabaseConfig) MigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
