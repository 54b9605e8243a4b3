package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	CRMSyncDirect = "direct"
	CRMSyncQueue  = "queue"
)

type Config struct {
	Env            string   `env:"APP_ENV" envDefault:"development"`
	Port           string   `env:"PORT" envDefault:"8080"`
	DatabaseURL    string   `env:"DATABASE_URL"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	Server    ServerConfig    `envPrefix:"SERVER_"`
	OTP       OTPConfig       `envPrefix:"OTP_"`
	CRM       CRMConfig       `envPrefix:"CRM_"`
	RabbitMQ  RabbitMQConfig  `envPrefix:"RABBITMQ_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type OTPConfig struct {
	Length   int           `env:"LENGTH" envDefault:"6"`
	TTL      time.Duration `env:"TTL" envDefault:"10m"`
	HashCost int           `env:"HASH_COST" envDefault:"10"`
	// MaxAttempts is the number of wrong codes accepted per issued code.
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"5"`
}

type CRMConfig struct {
	URL      string        `env:"URL" envDefault:"https://api.salesforce.com/v1/umeloans/leads"`
	Token    string        `env:"TOKEN"`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
	SyncMode string        `env:"SYNC_MODE" envDefault:"direct"`
}

type RabbitMQConfig struct {
	URL string `env:"URL"`
}

type MailConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	User     string `env:"USER"`
	Password string `env:"PASS"`
	From     string `env:"FROM" envDefault:"no-reply@umeloans.com.au"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type RateLimitConfig struct {
	Requests int           `env:"REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"WINDOW" envDefault:"1m"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"30m"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.OTP.Length < 4 || c.OTP.Length > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10, got %d", c.OTP.Length)
	}
	if c.OTP.TTL <= 0 {
		return errors.New("OTP_TTL must be positive")
	}
	if c.OTP.MaxAttempts < 0 {
		return errors.New("OTP_MAX_ATTEMPTS must not be negative")
	}
	switch c.CRM.SyncMode {
	case CRMSyncDirect:
	case CRMSyncQueue:
		if c.RabbitMQ.URL == "" {
			return errors.New("RABBITMQ_URL is required when CRM_SYNC_MODE=queue")
		}
	default:
		return fmt.Errorf("CRM_SYNC_MODE must be %q or %q, got %q", CRMSyncDirect, CRMSyncQueue, c.CRM.SyncMode)
	}
	if c.JWT.Secret != "" && len(c.JWT.Secret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes (256 bits)")
	}
	if c.IsProduction() && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// NewLogger builds the process logger from LOG_LEVEL.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
