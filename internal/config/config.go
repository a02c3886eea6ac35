package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix             = "POCKETNOTE"
	defaultHTTPAddress    = "0.0.0.0:8080"
	defaultNotesPath      = "notes.json"
	defaultUserPath       = "user.json"
	defaultLogLevel       = "info"
	defaultCookieName     = "pocketnote_session"
	defaultSessionTTLMins = 720
)

// AppConfig captures runtime configuration for the notes server.
type AppConfig struct {
	HTTPAddress       string
	NotesPath         string
	UserPath          string
	SessionSecret     string
	SessionCookieName string
	SessionTTL        time.Duration
	LogLevel          string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("data.notes_path", defaultNotesPath)
	configViper.SetDefault("data.user_path", defaultUserPath)
	configViper.SetDefault("session.cookie_name", defaultCookieName)
	configViper.SetDefault("session.ttl_minutes", defaultSessionTTLMins)
	configViper.SetDefault("log.level", defaultLogLevel)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:       configViper.GetString("http.address"),
		NotesPath:         configViper.GetString("data.notes_path"),
		UserPath:          configViper.GetString("data.user_path"),
		SessionSecret:     configViper.GetString("session.signing_secret"),
		SessionCookieName: configViper.GetString("session.cookie_name"),
		SessionTTL:        time.Duration(configViper.GetInt("session.ttl_minutes")) * time.Minute,
		LogLevel:          configViper.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("session.signing_secret is required")
	}
	if strings.TrimSpace(c.NotesPath) == "" {
		return fmt.Errorf("data.notes_path is required")
	}
	if strings.TrimSpace(c.UserPath) == "" {
		return fmt.Errorf("data.user_path is required")
	}
	if strings.TrimSpace(c.SessionCookieName) == "" {
		return fmt.Errorf("session.cookie_name is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session.ttl_minutes must be positive")
	}
	return nil
}
