// Package config reads runtime settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/akashsharma1462/portfolio/internal/relay"
)

const (
	defaultPort               = "8080"
	defaultDBPath             = "portfolio.db"
	defaultLogLevel           = "info"
	defaultRelayTimeout       = 20 * time.Second
	defaultResetDelay         = 3 * time.Second
	defaultRateLimitPerMinute = 6
	defaultRateLimitBurst     = 3
	defaultSessionIdle        = 30 * time.Minute
	defaultSSHAddr            = ":2222"
	defaultSSHHostKeyPath     = ".ssh/portfolio_ed25519"
	defaultSSHIdleTimeout     = 10 * time.Minute
	defaultSSHRatePerMinute   = 20
	defaultSSHRateBurst       = 5
	defaultSMTPHost           = "smtp.gmail.com"
	defaultSMTPPort           = "587"
)

type RelayKind string

const (
	RelayEmailJS RelayKind = "emailjs"
	RelaySMTP    RelayKind = "smtp"
)

type Config struct {
	Port        string
	LogLevel    string
	DBPath      string
	ContentPath string
	// ToEmail overrides the recipient address from the content file.
	ToEmail string

	Relay   RelayConfig
	Contact ContactConfig
	Admin   AdminConfig
	SSH     SSHConfig
}

type RelayConfig struct {
	Kind    RelayKind
	EmailJS relay.EmailJSConfig
	SMTP    relay.SMTPConfig
	Timeout time.Duration
}

// Configured reports whether the selected relay has real credentials.
func (r RelayConfig) Configured() bool {
	switch r.Kind {
	case RelaySMTP:
		return relay.Configured(r.SMTP.Host, r.SMTP.User, r.SMTP.Pass)
	default:
		return relay.Configured(r.EmailJS.ServiceID, r.EmailJS.TemplateID, r.EmailJS.PublicKey)
	}
}

type ContactConfig struct {
	ResetDelay         time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
	SessionIdleTimeout time.Duration
}

type AdminConfig struct {
	Username string
	Password string
	// Defaulted is true when either credential fell back to the development value.
	Defaulted bool
}

type SSHConfig struct {
	Enabled     bool
	Addr        string
	HostKeyPath string
	IdleTimeout time.Duration
	// Connection budget per remote IP, separate from the contact form's.
	RateLimitPerMinute int
	RateLimitBurst     int
}

// LoadFromEnv loads runtime configuration from environment variables.
func LoadFromEnv() (Config, error) {
	var cfg Config
	var err error

	cfg.Port = readString("PORT", defaultPort)
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric: %w", err)
	}
	cfg.LogLevel = strings.ToLower(readString("LOG_LEVEL", defaultLogLevel))
	cfg.DBPath = readString("PORTFOLIO_DB_PATH", defaultDBPath)
	cfg.ContentPath = os.Getenv("PORTFOLIO_CONTENT_PATH")
	cfg.ToEmail = strings.TrimSpace(os.Getenv("TO_EMAIL"))

	kind := RelayKind(strings.ToLower(readString("CONTACT_RELAY", string(RelayEmailJS))))
	if kind != RelayEmailJS && kind != RelaySMTP {
		return Config{}, fmt.Errorf("CONTACT_RELAY must be %q or %q", RelayEmailJS, RelaySMTP)
	}
	cfg.Relay.Kind = kind
	if cfg.Relay.Timeout, err = readDuration("CONTACT_RELAY_TIMEOUT", defaultRelayTimeout); err != nil {
		return Config{}, err
	}
	cfg.Relay.EmailJS = relay.EmailJSConfig{
		ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
		TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
		PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
		PrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
		Endpoint:   readString("EMAILJS_ENDPOINT", relay.DefaultEmailJSEndpoint),
		Timeout:    cfg.Relay.Timeout,
	}
	cfg.Relay.SMTP = relay.SMTPConfig{
		Host: readString("SMTP_HOST", defaultSMTPHost),
		Port: readString("SMTP_PORT", defaultSMTPPort),
		User: os.Getenv("SMTP_USER"),
		Pass: os.Getenv("SMTP_PASS"),
	}

	if cfg.Contact.ResetDelay, err = readDuration("CONTACT_RESET_DELAY", defaultResetDelay); err != nil {
		return Config{}, err
	}
	if cfg.Contact.RateLimitPerMinute, err = readInt("CONTACT_RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute, 1, 10000); err != nil {
		return Config{}, err
	}
	if cfg.Contact.RateLimitBurst, err = readInt("CONTACT_RATE_LIMIT_BURST", defaultRateLimitBurst, 1, 1000); err != nil {
		return Config{}, err
	}
	if cfg.Contact.SessionIdleTimeout, err = readDuration("SESSION_IDLE_TIMEOUT", defaultSessionIdle); err != nil {
		return Config{}, err
	}

	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
		cfg.Admin.Defaulted = true
	}
	if cfg.Admin.Password == "" {
		cfg.Admin.Password = "admin123"
		cfg.Admin.Defaulted = true
	}

	if cfg.SSH.Enabled, err = readBool("SSH_ENABLED", false); err != nil {
		return Config{}, err
	}
	cfg.SSH.Addr = readString("SSH_ADDR", defaultSSHAddr)
	cfg.SSH.HostKeyPath = readString("SSH_HOST_KEY_PATH", defaultSSHHostKeyPath)
	if cfg.SSH.IdleTimeout, err = readDuration("SSH_IDLE_TIMEOUT", defaultSSHIdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SSH.RateLimitPerMinute, err = readInt("SSH_RATE_LIMIT_PER_MINUTE", defaultSSHRatePerMinute, 1, 10000); err != nil {
		return Config{}, err
	}
	if cfg.SSH.RateLimitBurst, err = readInt("SSH_RATE_LIMIT_BURST", defaultSSHRateBurst, 1, 1000); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

func readString(key, fallback string) string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	return raw
}

func readInt(key string, fallback, min, max int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if parsed < min || parsed > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return parsed, nil
}

func readDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}

func readBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return parsed, nil
}
