// Package config loads application configuration from the environment, an
// optional .env file and an optional YAML file named by CONFIG_FILE.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Auth providers.
const (
	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	// Server
	Env             string        `mapstructure:"env"`
	Port            string        `mapstructure:"port"`
	ServiceName     string        `mapstructure:"service_name"`
	ServiceVersion  string        `mapstructure:"service_version"`
	CORSOrigins     []string      `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Database
	DBDriver       string `mapstructure:"db_driver"`
	DBHost         string `mapstructure:"db_host"`
	DBPort         string `mapstructure:"db_port"`
	DBUser         string `mapstructure:"db_user"`
	DBPassword     string `mapstructure:"db_password"`
	DBName         string `mapstructure:"db_name"`
	DBSSLMode      string `mapstructure:"db_sslmode"`
	DBSQLitePath   string `mapstructure:"db_sqlite_path"`
	MigrationsPath string `mapstructure:"migrations_path"`

	// Auth
	AuthProvider            string `mapstructure:"auth_provider"`
	FirebaseProjectID       string `mapstructure:"firebase_project_id"`
	FirebaseCredentialsFile string `mapstructure:"firebase_credentials_file"`
	LocalAuthSecret         string `mapstructure:"local_auth_secret"`

	// Pipeline
	PipelineAPIKey string `mapstructure:"pipeline_api_key"`

	// Error reporting
	ErrorReportingAMQPURL  string `mapstructure:"error_reporting_amqp_url"`
	ErrorReportingExchange string `mapstructure:"error_reporting_exchange"`
	ErrorReportingQueue    string `mapstructure:"error_reporting_queue"`

	// Projection engine
	ProjectionYears           int  `mapstructure:"projection_years"`
	ProjectionBaseAge         int  `mapstructure:"projection_base_age"`
	ProjectionInflateExpenses bool `mapstructure:"projection_inflate_expenses"`
}

var defaults = map[string]interface{}{
	"env":                         "development",
	"port":                        "4000",
	"service_name":                "finance4all-api",
	"service_version":             "1.0.0",
	"cors_allowed_origins":        "http://localhost:3000",
	"shutdown_timeout":            "10s",
	"db_driver":                   DriverPostgres,
	"db_host":                     "localhost",
	"db_port":                     "5432",
	"db_user":                     "finance4all",
	"db_password":                 "finance4all",
	"db_name":                     "finance4all",
	"db_sslmode":                  "disable",
	"db_sqlite_path":              "finance4all.db",
	"migrations_path":             "migrations",
	"auth_provider":               AuthProviderFirebase,
	"firebase_project_id":         "",
	"firebase_credentials_file":   "",
	"local_auth_secret":           "",
	"pipeline_api_key":            "",
	"error_reporting_amqp_url":    "",
	"error_reporting_exchange":    "finance4all.errors",
	"error_reporting_queue":       "finance4all.errors",
	"projection_years":            30,
	"projection_base_age":         30,
	"projection_inflate_expenses": false,
}

// Load reads configuration. Environment variables win over the config file,
// which wins over the defaults above.
func Load() (*Config, error) {
	// A missing .env file is fine; variables may come from the real environment.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("cors_allowed_origins"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.AuthProvider {
	case AuthProviderFirebase:
	case AuthProviderLocal:
		if c.IsProduction() {
			return errors.New("AUTH_PROVIDER=local is not allowed in production")
		}
		if c.LocalAuthSecret == "" {
			return errors.New("LOCAL_AUTH_SECRET is required when AUTH_PROVIDER=local")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.ProjectionYears < 1 || c.ProjectionYears > 100 {
		return fmt.Errorf("PROJECTION_YEARS must be between 1 and 100, got %d", c.ProjectionYears)
	}
	if c.ProjectionBaseAge < 0 {
		return fmt.Errorf("PROJECTION_BASE_AGE must not be negative, got %d", c.ProjectionBaseAge)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PostgresDSN returns the gorm PostgreSQL connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// PostgresURL returns the URL form used by golang-migrate.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
