package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
}

type Database struct {
	Host            string        `yaml:"PG_HOST" env:"PG_HOST" env-default:"localhost"`
	Port            string        `yaml:"PG_PORT" env:"PG_PORT" env-default:"5432"`
	User            string        `yaml:"PG_USER" env:"PG_USER" env-required:"true"`
	Password        string        `yaml:"PG_PASSWORD" env:"PG_PASSWORD" env-required:"true"`
	Name            string        `yaml:"PG_DBNAME" env:"PG_DBNAME" env-required:"true"`
	SSLMode         string        `yaml:"PG_SSLMODE" env:"PG_SSLMODE" env-default:"require"`
	MaxOpenConns    int           `yaml:"MAX_OPEN_CONNS" env:"PG_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"MAX_IDLE_CONNS" env:"PG_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"CONN_MAX_LIFETIME" env:"PG_CONN_MAX_LIFETIME" env-default:"30m"`
	ConnMaxIdleTime time.Duration `yaml:"CONN_MAX_IDLE_TIME" env:"PG_CONN_MAX_IDLE_TIME" env-default:"5m"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-required:"true"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-required:"true"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"5"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"15s"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
	PaymentMethod string `yaml:"STRIPE_PAYMENT_METHOD" env:"STRIPE_PAYMENT_METHOD" env-default:"pm_card_visa"`
}

type SendGrid struct {
	APIKey    string `yaml:"API_KEY" env:"SENDGRID_API_KEY" env-default:""`
	FromEmail string `yaml:"FROM_EMAIL" env:"SENDGRID_FROM_EMAIL" env-default:"orders@example.com"`
	FromName  string `yaml:"FROM_NAME" env:"SENDGRID_FROM_NAME" env-default:"Storefront"`
}

type Security struct {
	JWTKey         string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
	JWTExpiryHours int    `yaml:"JWT_EXPIRY_HOURS" env:"JWT_EXPIRY_HOURS" env-default:"168"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_ENDPOINT" env-default:""`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type CacheConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"CACHE_DEFAULT_TTL" env-default:"5m"`
}

const (
	PaymentGateStub   = "stub"
	PaymentGateStripe = "stripe"
)

// Checkout controls order assembly and the order status state machine.
type Checkout struct {
	Currency                string `yaml:"CURRENCY" env:"CHECKOUT_CURRENCY" env-default:"usd"`
	PaymentGate             string `yaml:"PAYMENT_GATE" env:"CHECKOUT_PAYMENT_GATE" env-default:"stub"`
	StrictStatusTransitions bool   `yaml:"STRICT_STATUS_TRANSITIONS" env:"CHECKOUT_STRICT_STATUS_TRANSITIONS" env-default:"false"`
}

type Config struct {
	Env          string       `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   HTTPServer   `yaml:"http_server"`
	Database     Database     `yaml:"database"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Stripe       Stripe       `yaml:"stripe"`
	SendGrid     SendGrid     `yaml:"sendgrid"`
	Security     Security     `yaml:"security"`
	Otel         Otel         `yaml:"otel"`
	Cache        CacheConfig  `yaml:"cache"`
	Checkout     Checkout     `yaml:"checkout"`
}

const defaultConfigPath = "./config/local.yaml"

// MustLoad resolves the config path from CONFIG_PATH, then the -config flag,
// then ./config/local.yaml, and exits the process on any failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "path to the YAML config file")
		flag.Parse()

		configPath = *flags
	}

	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not load config: %s", err.Error())
	}

	return cfg
}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Checkout) validate() error {
	switch c.PaymentGate {
	case PaymentGateStub, PaymentGateStripe:
		return nil
	default:
		return fmt.Errorf("unsupported payment gate %q", c.PaymentGate)
	}
}

func (d *Database) GetDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s", r.Username, r.Password, r.Host, r.Port)
}

func (s *Security) TokenTTL() time.Duration {
	return time.Duration(s.JWTExpiryHours) * time.Hour
}
