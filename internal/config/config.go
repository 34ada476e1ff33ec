// Package config loads server settings from defaults, an optional .env file
// and the process environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const minJWTSecretLength = 32

// Config holds every runtime setting of the server.
type Config struct {
	Port           string
	DatabasePath   string
	JWTSecret      string
	CookieSecure   bool
	BcryptCost     int
	ChatBackendURL string
	ChatTimeout    time.Duration
	SimulatedDelay time.Duration
	OTPTTL         time.Duration
	SessionTTL     time.Duration
	IdleTimeout    time.Duration
	ShowOTP        bool
}

var defaults = map[string]string{
	"PORT":             "8080",
	"DATABASE_PATH":    "college-chatbot.db",
	"COOKIE_SECURE":    "true",
	"BCRYPT_COST":      "12",
	"CHAT_BACKEND_URL": "http://localhost:8000/chat",
	"CHAT_TIMEOUT":     "15s",
	"SIMULATED_DELAY":  "1s",
	"OTP_TTL":          "5m",
	"SESSION_TTL":      "24h",
	"IDLE_TIMEOUT":     "30m",
	"SHOW_OTP":         "true",
}

// Load reads the configuration. envFile names a dotenv file to read; when
// empty, ENV_FILE is consulted and then ".env". A missing file is not an
// error.
func Load(envFile string) (*Config, error) {
	k := koanf.New(".")
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if envFile == "" {
		envFile = os.Getenv("ENV_FILE")
	}
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := k.Load(file.Provider(envFile), dotenv.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	return parse(k)
}

func parse(k *koanf.Koanf) (*Config, error) {
	var errs []error
	str := func(key string) string { return strings.TrimSpace(k.String(key)) }
	boolean := func(key string) bool {
		b, err := strconv.ParseBool(str(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", key, str(key)))
		}
		return b
	}
	duration := func(key string) time.Duration {
		d, err := time.ParseDuration(str(key))
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s: %q is not a valid duration", key, str(key)))
		}
		return d
	}

	cfg := &Config{
		Port:           str("PORT"),
		DatabasePath:   str("DATABASE_PATH"),
		JWTSecret:      k.String("JWT_SECRET"),
		CookieSecure:   boolean("COOKIE_SECURE"),
		ChatBackendURL: str("CHAT_BACKEND_URL"),
		ChatTimeout:    duration("CHAT_TIMEOUT"),
		SimulatedDelay: duration("SIMULATED_DELAY"),
		OTPTTL:         duration("OTP_TTL"),
		SessionTTL:     duration("SESSION_TTL"),
		IdleTimeout:    duration("IDLE_TIMEOUT"),
		ShowOTP:        boolean("SHOW_OTP"),
	}

	cost, err := strconv.Atoi(str("BCRYPT_COST"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("BCRYPT_COST: %q is not a number", str("BCRYPT_COST")))
	case cost < 4 || cost > 14:
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cost))
	}
	cfg.BcryptCost = cost

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(cfg.JWTSecret) < minJWTSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minJWTSecretLength))
	}
	if cfg.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if cfg.OTPTTL == 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}
	if cfg.SessionTTL == 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
