package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DBConfig holds database configuration
type DBConfig struct {
	Host            string        `env:"DB_HOST,required,notEmpty"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER,required,notEmpty"`
	Password        string        `env:"DB_PASSWORD,required,notEmpty"`
	DBName          string        `env:"DB_NAME,required,notEmpty"`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	LogLevelName    string        `env:"DB_LOG_LEVEL" envDefault:"warn"`
}

// GetDSN returns the PostgreSQL connection string
func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogLevel maps DB_LOG_LEVEL onto the gorm logger levels.
func (c *DBConfig) LogLevel() logger.LogLevel {
	switch c.LogLevelName {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `env:"PORT,required,notEmpty"`
	Env  string `env:"APP_ENV" envDefault:"development"`
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret        string `env:"JWT_SECRET,required,notEmpty"`
	ExpiresIn     string `env:"JWT_EXPIRES_IN,required,notEmpty"`
	SigningMethod string `env:"JWT_SIGNING_METHOD" envDefault:"HS256"`

	// Lifetime is ExpiresIn parsed by Validate.
	Lifetime time.Duration
}

// SecurityConfig holds password hashing and login throttling settings
type SecurityConfig struct {
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Version string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
}

// Config holds all configuration
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	JWT      JWTConfig
	Security SecurityConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// Load loads configuration from an optional .env file and the process environment.
// Missing required variables are reported together and must stop the process.
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse(env.ToMap(os.Environ()))
}

// Parse builds a Config from the given environment map.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c *Config) Validate() error {
	lifetime, err := ParseLifetime(c.JWT.ExpiresIn)
	if err != nil {
		return fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}
	c.JWT.Lifetime = lifetime

	switch c.JWT.SigningMethod {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("JWT_SIGNING_METHOD: %q is not an HMAC method", c.JWT.SigningMethod)
	}

	if c.Security.LoginRateLimit < 0 {
		return errors.New("LOGIN_RATE_LIMIT must not be negative")
	}
	return nil
}

const (
	maxDays    = math.MaxInt64 / int64(24*time.Hour)
	maxSeconds = math.MaxInt64 / int64(time.Second)
)

// ParseLifetime accepts a Go duration ("90m"), a day count ("7d") or bare seconds ("3600").
func ParseLifetime(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.New("empty lifetime")
	}

	var d time.Duration
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", value)
		}
		if int64(n) > maxDays {
			return 0, fmt.Errorf("lifetime %q is too long", value)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else if secs, err := strconv.Atoi(value); err == nil {
		if int64(secs) > maxSeconds {
			return 0, fmt.Errorf("lifetime %q is too long", value)
		}
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid lifetime %q", value)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("lifetime %q must be positive", value)
	}
	return d, nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("db_host", c.DB.Host),
		zap.String("db_port", c.DB.Port),
		zap.String("db_user", c.DB.User),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.Duration("token_lifetime", c.JWT.Lifetime),
		zap.String("signing_method", c.JWT.SigningMethod),
		zap.Bool("login_throttle", c.Security.RedisAddr != ""),
	}
}
