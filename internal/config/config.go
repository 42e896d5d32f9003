package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads.
const EnvPrefix = "RENTDESK"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Billing BillingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for tenancy documents.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// BillingConfig drives the recurring invoice worker and schedule defaults.
type BillingConfig struct {
	AutoInvoiceEnabled  bool          `mapstructure:"auto_invoice_enabled"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`
	LeadDays            int           `mapstructure:"lead_days"`
	Concurrency         int           `mapstructure:"concurrency"`
	DefaultRentalMonths int           `mapstructure:"default_rental_months"`
}

var defaults = map[string]any{
	"server.port":          ":8080",
	"server.read_timeout":  "15s",
	"server.write_timeout": "15s",
	"server.environment":   "development",

	"db.host":     "localhost",
	"db.port":     5432,
	"db.user":     "rentdesk",
	"db.password": "rentdesk_secret",
	"db.name":     "rentdesk_db",
	"db.sslmode":  "disable",
	"db.max_open": 25,
	"db.max_idle": 10,

	"jwt.secret":         "change-me-in-production",
	"jwt.access_expiry":  "15m",
	"jwt.refresh_expiry": "168h",
	"jwt.issuer":         "rentdesk",

	"s3.region":           "us-east-1",
	"s3.bucket":           "rentdesk-documents",
	"s3.endpoint":         "",
	"s3.access_key":       "",
	"s3.secret_key":       "",
	"s3.max_file_size_mb": 20,
	"s3.presign_expiry":   3600,

	"log.level":  "debug",
	"log.format": "console",

	"cors.allowed_origins": "http://localhost:3000,http://127.0.0.1:3000",

	"email.provider":     "noop",
	"email.region":       "us-east-1",
	"email.from_address": "billing@rentdesk.local",
	"email.from_name":    "Rentdesk",
	"email.frontend_url": "http://localhost:3000",

	"billing.auto_invoice_enabled":  false,
	"billing.poll_interval":         "1h",
	"billing.lead_days":             7,
	"billing.concurrency":           4,
	"billing.default_rental_months": 12,
}

// envName maps a nested key such as "db.max_open" to RENTDESK_DB_MAX_OPEN.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads configuration from environment variables with the RENTDESK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range defaults {
		v.SetDefault(key, val)
		// Nested keys are not picked up by AutomaticEnv on Get* alone.
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("config: binding %s: %w", key, err)
		}
	}

	cfg := &Config{}

	// Hosting platforms set PORT; honour it unless the prefixed variable is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envName("server.port")) == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Billing = BillingConfig{
		AutoInvoiceEnabled:  v.GetBool("billing.auto_invoice_enabled"),
		PollInterval:        v.GetDuration("billing.poll_interval"),
		LeadDays:            v.GetInt("billing.lead_days"),
		Concurrency:         v.GetInt("billing.concurrency"),
		DefaultRentalMonths: v.GetInt("billing.default_rental_months"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Billing.PollInterval <= 0 {
		return fmt.Errorf("config: billing.poll_interval must be positive")
	}
	if c.Billing.Concurrency < 1 {
		return fmt.Errorf("config: billing.concurrency must be at least 1")
	}
	if c.Billing.LeadDays < 0 {
		return fmt.Errorf("config: billing.lead_days must not be negative")
	}
	if c.Billing.DefaultRentalMonths < 1 {
		return fmt.Errorf("config: billing.default_rental_months must be at least 1")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
