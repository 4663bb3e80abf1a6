// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

// Package config loads Latchkey settings from defaults, an optional YAML
// file, the environment and command-line flags, in that order.
package config

import (
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/latchkey/latchkey/internal/auth"
	"github.com/latchkey/latchkey/internal/logging"
	"github.com/latchkey/latchkey/internal/notify"
	"github.com/latchkey/latchkey/internal/store"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store kinds.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Notification transports.
const (
	TransportLog  = "log"
	TransportSMTP = "smtp"
	TransportAMQP = "amqp"
)

// Config is the full Latchkey configuration.
type Config struct {
	Env    string       `koanf:"env"`
	Log    LogConfig    `koanf:"log"`
	HTTP   HTTPConfig   `koanf:"http"`
	Store  StoreConfig  `koanf:"store"`
	Auth   AuthConfig   `koanf:"auth"`
	Notify NotifyConfig `koanf:"notify"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// HTTPConfig holds listen addresses. An empty MetricsAddr disables the
// observability server.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	MetricsAddr     string        `koanf:"metrics_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CookieDomain    string        `koanf:"cookie_domain"`
}

// StoreConfig selects and tunes the account store.
type StoreConfig struct {
	Kind            string        `koanf:"kind"`
	DatabaseURL     string        `koanf:"database_url"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// AuthConfig holds credential policy and secret lifetimes.
type AuthConfig struct {
	SessionSecret          string        `koanf:"session_secret"`
	SessionTTL             time.Duration `koanf:"session_ttl"`
	Issuer                 string        `koanf:"issuer"`
	BcryptCost             int           `koanf:"bcrypt_cost"`
	VerificationTTL        time.Duration `koanf:"verification_ttl"`
	ResetTTL               time.Duration `koanf:"reset_ttl"`
	ResetURLBase           string        `koanf:"reset_url_base"`
	ConcealUnknownAccounts bool          `koanf:"conceal_unknown_accounts"`
	StoreTimeout           time.Duration `koanf:"store_timeout"`
	NotifyTimeout          time.Duration `koanf:"notify_timeout"`
}

// NotifyConfig selects the notification transport.
type NotifyConfig struct {
	Transport string      `koanf:"transport"`
	AppName   string      `koanf:"app_name"`
	From      string      `koanf:"from"`
	SMTP      SMTPConfig  `koanf:"smtp"`
	AMQP      AMQPConfig  `koanf:"amqp"`
	Retry     RetryConfig `koanf:"retry"`
}

// SMTPConfig addresses the outbound relay.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	StartTLS bool   `koanf:"starttls"`
}

// AMQPConfig addresses the notice queue.
type AMQPConfig struct {
	URL      string `koanf:"url"`
	Queue    string `koanf:"queue"`
	Prefetch int    `koanf:"prefetch"`
}

// RetryConfig bounds SMTP delivery retries.
type RetryConfig struct {
	Attempts uint64        `koanf:"attempts"`
	Base     time.Duration `koanf:"base"`
	Max      time.Duration `koanf:"max"`
}

// Default returns the stock configuration. It is not valid on its own:
// a session secret must be supplied.
func Default() Config {
	retry := notify.DefaultRetryConfig()
	svc := auth.DefaultServiceConfig()
	return Config{
		Env: EnvDevelopment,
		Log: LogConfig{Format: "json", Level: "info"},
		HTTP: HTTPConfig{
			Addr:            ":5000",
			MetricsAddr:     "127.0.0.1:9100",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Kind:            StorePostgres,
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			ConnectTimeout:  store.DefaultConnectTimeout,
			AutoMigrate:     true,
		},
		Auth: AuthConfig{
			SessionTTL:             auth.SessionTokenExpiry,
			Issuer:                 auth.DefaultIssuer,
			BcryptCost:             auth.DefaultBcryptCost,
			VerificationTTL:        svc.VerificationTTL,
			ResetTTL:               svc.ResetTTL,
			ResetURLBase:           "http://localhost:5173" + ResetPath,
			ConcealUnknownAccounts: svc.ConcealUnknownAccounts,
			StoreTimeout:           svc.StoreTimeout,
			NotifyTimeout:          svc.NotifyTimeout,
		},
		Notify: NotifyConfig{
			Transport: TransportLog,
			AppName:   "Latchkey",
			From:      "Latchkey <no-reply@latchkey.local>",
			SMTP:      SMTPConfig{Port: 587, StartTLS: true},
			AMQP:      AMQPConfig{Queue: notify.DefaultQueue, Prefetch: 8},
			Retry:     RetryConfig{Attempts: retry.Attempts, Base: retry.Base, Max: retry.Max},
		},
	}
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return invalid("env", "env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "unknown log level %q", c.Log.Level)
	}

	if _, _, err := net.SplitHostPort(c.HTTP.Addr); err != nil {
		return invalid("http.addr", "listen address %q must be host:port", c.HTTP.Addr)
	}
	if c.HTTP.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.HTTP.MetricsAddr); err != nil {
			return invalid("http.metrics_addr", "metrics address %q must be host:port", c.HTTP.MetricsAddr)
		}
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return invalid("http.shutdown_timeout", "shutdown timeout must be positive")
	}

	switch c.Store.Kind {
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return invalid("store.database_url", "database URL is required for the postgres store")
		}
		if c.Store.MaxConns < 0 || c.Store.MinConns < 0 || (c.Store.MaxConns > 0 && c.Store.MinConns > c.Store.MaxConns) {
			return invalid("store.max_conns", "pool bounds are inconsistent: min %d, max %d", c.Store.MinConns, c.Store.MaxConns)
		}
	case StoreMemory:
		if c.IsProduction() {
			return invalid("store.kind", "the memory store cannot be used in production")
		}
	default:
		return invalid("store.kind", "store kind must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store.Kind)
	}

	if len(c.Auth.SessionSecret) < auth.MinSessionSecretSize {
		return invalid("auth.session_secret", "session secret must be at least %d bytes", auth.MinSessionSecretSize)
	}
	if c.Auth.BcryptCost < auth.MinBcryptCost || c.Auth.BcryptCost > auth.MaxBcryptCost {
		return invalid("auth.bcrypt_cost", "bcrypt cost must be between %d and %d, got %d",
			auth.MinBcryptCost, auth.MaxBcryptCost, c.Auth.BcryptCost)
	}
	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"auth.session_ttl", c.Auth.SessionTTL},
		{"auth.verification_ttl", c.Auth.VerificationTTL},
		{"auth.reset_ttl", c.Auth.ResetTTL},
		{"auth.store_timeout", c.Auth.StoreTimeout},
		{"auth.notify_timeout", c.Auth.NotifyTimeout},
	} {
		if d.value <= 0 {
			return invalid(d.field, "%s must be positive", d.field)
		}
	}
	if u, err := url.Parse(c.Auth.ResetURLBase); err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("auth.reset_url_base", "reset URL base %q must be an absolute URL", c.Auth.ResetURLBase)
	}

	switch c.Notify.Transport {
	case TransportLog:
		if c.IsProduction() {
			return invalid("notify.transport", "the log transport cannot be used in production")
		}
	case TransportSMTP:
		if c.Notify.SMTP.Host == "" {
			return invalid("notify.smtp.host", "SMTP host is required")
		}
		if c.Notify.SMTP.Port <= 0 || c.Notify.SMTP.Port > 65535 {
			return invalid("notify.smtp.port", "SMTP port %d is out of range", c.Notify.SMTP.Port)
		}
	case TransportAMQP:
		if c.Notify.AMQP.URL == "" {
			return invalid("notify.amqp.url", "AMQP URL is required")
		}
	default:
		return invalid("notify.transport", "transport must be %q, %q or %q, got %q",
			TransportLog, TransportSMTP, TransportAMQP, c.Notify.Transport)
	}
	if c.Notify.From == "" {
		return invalid("notify.from", "sender address is required")
	}
	if c.Notify.Retry.Attempts == 0 {
		return invalid("notify.retry.attempts", "retry attempts must be at least 1")
	}

	return nil
}

// ValidateMailer checks the settings the mailer process needs: an AMQP
// source and an SMTP relay.
func (c *Config) ValidateMailer() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log format must be 'json' or 'text', got %q", c.Log.Format)
	}
	if c.Notify.AMQP.URL == "" {
		return invalid("notify.amqp.url", "AMQP URL is required")
	}
	if c.Notify.SMTP.Host == "" {
		return invalid("notify.smtp.host", "SMTP host is required")
	}
	if c.Notify.Retry.Attempts == 0 {
		return invalid("notify.retry.attempts", "retry attempts must be at least 1")
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("field", field).Errorf(format, args...)
}

// ServiceConfig projects the service policy.
func (c *Config) ServiceConfig() auth.ServiceConfig {
	return auth.ServiceConfig{
		VerificationTTL:        c.Auth.VerificationTTL,
		ResetTTL:               c.Auth.ResetTTL,
		ResetURLBase:           strings.TrimRight(c.Auth.ResetURLBase, "/"),
		StoreTimeout:           c.Auth.StoreTimeout,
		NotifyTimeout:          c.Auth.NotifyTimeout,
		ConcealUnknownAccounts: c.Auth.ConcealUnknownAccounts,
	}
}

// SessionConfig projects the session signing settings.
func (c *Config) SessionConfig() auth.SessionConfig {
	return auth.SessionConfig{
		Secret: []byte(c.Auth.SessionSecret),
		Issuer: c.Auth.Issuer,
		TTL:    c.Auth.SessionTTL,
	}
}

// PoolOptions projects the connection pool settings.
func (c *Config) PoolOptions() store.PoolOptions {
	return store.PoolOptions{
		MaxConns:        c.Store.MaxConns,
		MinConns:        c.Store.MinConns,
		MaxConnLifetime: c.Store.MaxConnLifetime,
		ConnectTimeout:  c.Store.ConnectTimeout,
	}
}

// TemplateConfig projects the notice template settings.
func (c *Config) TemplateConfig() notify.TemplateConfig {
	return notify.TemplateConfig{
		AppName:         c.Notify.AppName,
		From:            c.Notify.From,
		VerificationTTL: c.Auth.VerificationTTL,
		ResetTTL:        c.Auth.ResetTTL,
	}
}

// SMTPConfig projects the SMTP relay settings.
func (c *Config) SMTPConfig() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     c.Notify.SMTP.Host,
		Port:     c.Notify.SMTP.Port,
		Username: c.Notify.SMTP.Username,
		Password: c.Notify.SMTP.Password,
		From:     c.Notify.From,
		StartTLS: c.Notify.SMTP.StartTLS,
	}
}

// RetryConfig projects the delivery retry policy.
func (c *Config) RetryConfig() notify.RetryConfig {
	return notify.RetryConfig{
		Attempts: c.Notify.Retry.Attempts,
		Base:     c.Notify.Retry.Base,
		Max:      c.Notify.Retry.Max,
	}
}
