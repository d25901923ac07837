package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Port          string        `mapstructure:"PORT"`
	APIPort       string        `mapstructure:"API_PORT"`
	APIBaseURL    string        `mapstructure:"API_BASE_URL"`
	APITimeout    time.Duration `mapstructure:"API_TIMEOUT"`
	DBDSN         string        `mapstructure:"DB_DSN"`
	LogFile       string        `mapstructure:"LOG_FILE"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	SessionStore  string        `mapstructure:"SESSION_STORE"` // cookie | db
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	CookieSecure  bool          `mapstructure:"COOKIE_SECURE"`
	CORSOrigins   []string      `mapstructure:"CORS_ORIGINS"`
	AdminToken    string        `mapstructure:"ADMIN_TOKEN"`
	SentryDSN     string        `mapstructure:"SENTRY_DSN"`
	PostmarkToken string        `mapstructure:"POSTMARK_API_TOKEN"`
	EmailSender   string        `mapstructure:"EMAIL_SENDER"`
	TemplatesDir  string        `mapstructure:"TEMPLATES_DIR"`
	StaticDir     string        `mapstructure:"STATIC_DIR"`
}

var keys = []string{
	"PORT", "API_PORT", "API_BASE_URL", "API_TIMEOUT", "DB_DSN", "LOG_FILE", "LOG_LEVEL",
	"SESSION_STORE", "SESSION_SECRET", "COOKIE_SECURE", "CORS_ORIGINS", "ADMIN_TOKEN",
	"SENTRY_DSN", "POSTMARK_API_TOKEN", "EMAIL_SENDER", "TEMPLATES_DIR", "STATIC_DIR",
}

func Load() Config {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("[config] no .env file found, using environment")
	}
	cfg := FromViper(viper.New())
	log.Info().Msgf("[config] PORT=%s API_PORT=%s API_BASE_URL=%s DB_DSN=%s SESSION_STORE=%s LOG_FILE=%s",
		cfg.Port, cfg.APIPort, cfg.APIBaseURL, cfg.DBDSN, cfg.SessionStore, cfg.LogFile)
	return cfg
}

// FromViper applies defaults and environment bindings to v and decodes the result.
func FromViper(v *viper.Viper) Config {
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_PORT", "8001")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("DB_DSN", "hospot.db") // sqlite file in project root
	v.SetDefault("LOG_FILE", "./hospot.log")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SESSION_STORE", "cookie")
	v.SetDefault("SESSION_SECRET", "dev-only-change-me")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("EMAIL_SENDER", "orders@hospot.local")
	v.SetDefault("TEMPLATES_DIR", "./web/templates")
	v.SetDefault("STATIC_DIR", "./web/static")

	v.AutomaticEnv()
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Warn().Err(err).Msg("[config] could not decode configuration, using defaults")
	}
	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://127.0.0.1:" + cfg.APIPort + "/api"
	}
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	if cfg.SessionStore != "db" {
		cfg.SessionStore = "cookie"
	}
	return cfg
}
