// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Latchkey Contributors

package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/latchkey/latchkey/internal/xdg"
)

// ResetPath is the client route that completes a password reset. CLIENT_URL
// names the client origin, so the route is appended to it.
const ResetPath = "/reset-password"

// EnvPrefix marks environment variables read into the configuration.
// Nested keys are separated by a double underscore, so
// LATCHKEY_AUTH__SESSION_SECRET sets auth.session_secret.
const EnvPrefix = "LATCHKEY_"

// legacyEnv maps conventional unprefixed variables to their keys. Prefixed
// variables override them.
var legacyEnv = map[string]string{
	"DATABASE_URL": "store.database_url",
	"JWT_SECRET":   "auth.session_secret",
	"CLIENT_URL":   "auth.reset_url_base",
	"NODE_ENV":     "env",
	"PORT":         "http.addr",
}

// FlagKeys maps command-line flag names to configuration keys. Only flags
// named here are read.
var FlagKeys = map[string]string{
	"env":          "env",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"addr":         "http.addr",
	"metrics-addr": "http.metrics_addr",
	"store":        "store.kind",
	"database-url": "store.database_url",
	"auto-migrate": "store.auto_migrate",
	"transport":    "notify.transport",
}

// Options control where Load looks.
type Options struct {
	// Path is an optional YAML file. Empty falls back to the XDG config
	// file when one exists.
	Path string
	// DotEnv is loaded into the process environment when it exists.
	// Empty means ".env".
	DotEnv string
	// Flags are applied last; nil skips them.
	Flags *pflag.FlagSet
}

// Load builds the configuration from defaults, the optional file, the
// environment and flags. It does not validate.
func Load(opts Options) (*Config, error) {
	dotenv := opts.DotEnv
	if dotenv == "" {
		dotenv = ".env"
	}
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", dotenv).Wrap(err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "defaults").Wrap(err)
	}

	path := opts.Path
	if path == "" {
		path = xdg.ConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "file").With("path", path).Wrap(err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", legacyValue), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "legacy env").Wrap(err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "env").Wrap(err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("layer", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns LATCHKEY_AUTH__SESSION_SECRET into auth.session_secret.
func envKey(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(name, "__", ".")
}

func legacyValue(name, value string) (string, any) {
	key, ok := legacyEnv[name]
	if !ok || value == "" {
		return "", nil
	}
	switch {
	case name == "PORT" && !strings.Contains(value, ":"):
		value = ":" + value
	case name == "CLIENT_URL":
		value = strings.TrimRight(value, "/") + ResetPath
	}
	return key, value
}

// defaultMap flattens Default into koanf keys.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"env":                           d.Env,
		"log.format":                    d.Log.Format,
		"log.level":                     d.Log.Level,
		"http.addr":                     d.HTTP.Addr,
		"http.metrics_addr":             d.HTTP.MetricsAddr,
		"http.shutdown_timeout":         d.HTTP.ShutdownTimeout,
		"http.cookie_domain":            d.HTTP.CookieDomain,
		"store.kind":                    d.Store.Kind,
		"store.database_url":            d.Store.DatabaseURL,
		"store.max_conns":               d.Store.MaxConns,
		"store.min_conns":               d.Store.MinConns,
		"store.max_conn_lifetime":       d.Store.MaxConnLifetime,
		"store.connect_timeout":         d.Store.ConnectTimeout,
		"store.auto_migrate":            d.Store.AutoMigrate,
		"auth.session_secret":           d.Auth.SessionSecret,
		"auth.session_ttl":              d.Auth.SessionTTL,
		"auth.issuer":                   d.Auth.Issuer,
		"auth.bcrypt_cost":              d.Auth.BcryptCost,
		"auth.verification_ttl":         d.Auth.VerificationTTL,
		"auth.reset_ttl":                d.Auth.ResetTTL,
		"auth.reset_url_base":           d.Auth.ResetURLBase,
		"auth.conceal_unknown_accounts": d.Auth.ConcealUnknownAccounts,
		"auth.store_timeout":            d.Auth.StoreTimeout,
		"auth.notify_timeout":           d.Auth.NotifyTimeout,
		"notify.transport":              d.Notify.Transport,
		"notify.app_name":               d.Notify.AppName,
		"notify.from":                   d.Notify.From,
		"notify.smtp.host":              d.Notify.SMTP.Host,
		"notify.smtp.port":              d.Notify.SMTP.Port,
		"notify.smtp.username":          d.Notify.SMTP.Username,
		"notify.smtp.password":          d.Notify.SMTP.Password,
		"notify.smtp.starttls":          d.Notify.SMTP.StartTLS,
		"notify.amqp.url":               d.Notify.AMQP.URL,
		"notify.amqp.queue":             d.Notify.AMQP.Queue,
		"notify.amqp.prefetch":          d.Notify.AMQP.Prefetch,
		"notify.retry.attempts":         d.Notify.Retry.Attempts,
		"notify.retry.base":             d.Notify.Retry.Base,
		"notify.retry.max":              d.Notify.Retry.Max,
	}
}
