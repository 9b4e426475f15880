// internal/config/config.go
//
// Configuration for the matchboard binary.
//
// Sources, lowest to highest precedence:
//  1. built-in defaults (below),
//  2. an optional YAML config file (--config, or ./matchboard.yaml),
//  3. environment variables, including those loaded from a .env file.
//
// Environment variables use the upper-cased key: PORT, LOG_LEVEL,
// DATASET_FILE, JOURNAL_DSN, SESSION_SECRET, SESSION_TTL, CLIENT_ORIGIN,
// REQUEST_TIMEOUT, IDLE_BOARD_TTL, DAILY_SALT, SOUND, ENV.

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config keys.
const (
	KeyPort           = "port"
	KeyLogLevel       = "log_level"
	KeyDatasetFile    = "dataset_file"
	KeyJournalDSN     = "journal_dsn"
	KeySessionSecret  = "session_secret"
	KeySessionTTL     = "session_ttl"
	KeyClientOrigin   = "client_origin"
	KeyRequestTimeout = "request_timeout"
	KeyIdleBoardTTL   = "idle_board_ttl"
	KeyDailySalt      = "daily_salt"
	KeySound          = "sound"
	KeyEnv            = "env"
)

// DevSecret is the fallback signing secret for local runs.
const DevSecret = "dev_secret_change_me"

// Config is the resolved configuration.
type Config struct {
	Port           string
	LogLevel       string
	DatasetFile    string
	JournalDSN     string
	SessionSecret  string
	SessionTTL     time.Duration
	ClientOrigin   string
	RequestTimeout time.Duration
	IdleBoardTTL   time.Duration
	DailySalt      string
	Sound          bool
	Env            string
}

// Production reports whether ENV=production.
func (c Config) Production() bool { return c.Env == "production" }

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "5175")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDatasetFile, "")
	v.SetDefault(KeyJournalDSN, "./data/matchboard.db")
	v.SetDefault(KeySessionSecret, DevSecret)
	v.SetDefault(KeySessionTTL, "12h")
	v.SetDefault(KeyClientOrigin, "http://localhost:5175")
	v.SetDefault(KeyRequestTimeout, "10s")
	v.SetDefault(KeyIdleBoardTTL, "2h")
	v.SetDefault(KeyDailySalt, "local_dev_salt")
	v.SetDefault(KeySound, true)
	v.SetDefault(KeyEnv, "development")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true) // JOURNAL_DSN= disables the journal
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present), then the config file, then the environment.
// configFile may be empty; a missing default config file is not an error.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load()

	v := New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("matchboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return FromViper(v)
}

// FromViper resolves a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		Port:           v.GetString(KeyPort),
		LogLevel:       v.GetString(KeyLogLevel),
		DatasetFile:    v.GetString(KeyDatasetFile),
		JournalDSN:     v.GetString(KeyJournalDSN),
		SessionSecret:  v.GetString(KeySessionSecret),
		SessionTTL:     v.GetDuration(KeySessionTTL),
		ClientOrigin:   v.GetString(KeyClientOrigin),
		RequestTimeout: v.GetDuration(KeyRequestTimeout),
		IdleBoardTTL:   v.GetDuration(KeyIdleBoardTTL),
		DailySalt:      v.GetString(KeyDailySalt),
		Sound:          v.GetBool(KeySound),
		Env:            v.GetString(KeyEnv),
	}
	if c.Port == "" {
		return c, errors.New("config: port is empty")
	}
	if c.SessionTTL <= 0 {
		return c, fmt.Errorf("config: session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.RequestTimeout <= 0 {
		return c, fmt.Errorf("config: request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.Production() && c.SessionSecret == DevSecret {
		return c, errors.New("config: session_secret must be set in production")
	}
	return c, nil
}
