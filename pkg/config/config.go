package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Site     SiteConfig     `mapstructure:"site"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port" default:"8000"`
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret       string                    `mapstructure:"jwt_secret"`
	JWTExpiryHours  int                       `mapstructure:"jwt_expiry_hours"`
	JWTIssuer       string                    `mapstructure:"jwt_issuer"`
	SessionTimeout  time.Duration             `mapstructure:"session_timeout"`
	OAuth2          OAuth2Config              `mapstructure:"oauth2"`
	OAuth2Providers map[string]ProviderConfig `mapstructure:"oauth2_providers"`
}

// SessionConfig controls the session cookie written to browsers. Tokens can
// outgrow a single cookie, so values longer than ChunkSize are fragmented
// across MaxFragments cookies by the cookie codec.
type SessionConfig struct {
	CookieName   string `mapstructure:"cookie_name"`
	CookieDomain string `mapstructure:"cookie_domain"`
	CookiePath   string `mapstructure:"cookie_path"`
	Secure       bool   `mapstructure:"secure"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	MaxFragments int    `mapstructure:"max_fragments"`
	MaxAgeHours  int    `mapstructure:"max_age_hours"`
}

type OAuth2Config struct {
	Enabled      bool   `mapstructure:"enabled"`
	CallbackURL  string `mapstructure:"callback_url"`
	StateTimeout int    `mapstructure:"state_timeout"` // in minutes
}

type ProviderConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
	AuthURL      string   `mapstructure:"auth_url"`
	TokenURL     string   `mapstructure:"token_url"`
	UserInfoURL  string   `mapstructure:"userinfo_url"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SiteConfig holds the public-facing base URL, used to build
// email-confirmation and OAuth redirect links.
type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

func LoadConfig(configPath string) (*Config, error) {
	var config Config

	// If CONFIG_FILE environment variable is set, use it
	if envConfigFile := os.Getenv("CONFIG_FILE"); envConfigFile != "" {
		configPath = envConfigFile
	}

	// Initialize viper
	v := viper.New()
	v.SetConfigType("yaml")

	// If configPath is provided, use it directly
	if configPath != "" {
		dir := filepath.Dir(configPath)
		file := filepath.Base(configPath)
		ext := filepath.Ext(file)
		name := strings.TrimSuffix(file, ext)

		v.AddConfigPath(dir)
		v.SetConfigName(name)
	} else {
		// Fallback to default locations
		_, filename, _, _ := runtime.Caller(0)
		pkgConfigDir := filepath.Dir(filename)
		projectRoot := filepath.Join(pkgConfigDir, "..", "..")

		v.AddConfigPath(pkgConfigDir)
		v.AddConfigPath(projectRoot)
		v.AddConfigPath(filepath.Join(projectRoot, "pkg", "config"))
		v.SetConfigName("config")
	}

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error loading config file: %v", err)
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Override with environment variables if they exist
	envVars := map[string]string{
		"database.host":             "DB_HOST",
		"database.port":             "DB_PORT",
		"database.user":             "DB_USER",
		"database.password":         "DB_PASSWORD",
		"database.name":             "DB_NAME",
		"database.sslmode":          "DB_SSLMODE",
		"server.mode":               "SERVER_MODE",
		"server.timeout":            "SERVER_TIMEOUT",
		"redis.host":                "REDIS_HOST",
		"redis.port":                "REDIS_PORT",
		"redis.password":            "REDIS_PASSWORD",
		"redis.db":                  "REDIS_DB",
		"auth.jwt_secret":           "JWT_SECRET",
		"auth.jwt_issuer":           "JWT_ISSUER",
		"auth.jwt_expiry_hours":     "JWT_EXPIRY_HOURS",
		"auth.session_timeout":      "AUTH_SESSION_TIMEOUT",
		"auth.oauth2.enabled":       "OAUTH2_ENABLED",
		"auth.oauth2.callback_url":  "OAUTH2_CALLBACK_URL",
		"auth.oauth2.state_timeout": "OAUTH2_STATE_TIMEOUT",
		"auth.oauth2_providers.google.client_id":     "OAUTH2_GOOGLE_CLIENT_ID",
		"auth.oauth2_providers.google.client_secret": "OAUTH2_GOOGLE_CLIENT_SECRET",
		"auth.oauth2_providers.google.redirect_url":  "OAUTH2_GOOGLE_REDIRECT_URL",
		"session.cookie_name":   "SESSION_COOKIE_NAME",
		"session.cookie_domain": "SESSION_COOKIE_DOMAIN",
		"session.secure":        "SESSION_COOKIE_SECURE",
		"site.base_url":         "SITE_URL",
		"logging.level":         "LOG_LEVEL",
		"logging.format":        "LOG_FORMAT",
	}

	for configKey, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			// Handle special cases for type conversion
			switch envVar {
			case "DB_PORT", "REDIS_PORT", "JWT_EXPIRY_HOURS", "OAUTH2_STATE_TIMEOUT":
				if intVal, err := strconv.Atoi(value); err == nil {
					v.Set(configKey, intVal)
				}
			case "SERVER_TIMEOUT", "AUTH_SESSION_TIMEOUT":
				if d, err := time.ParseDuration(value); err == nil {
					v.Set(configKey, d)
				}
			case "OAUTH2_ENABLED", "SESSION_COOKIE_SECURE":
				if value == "true" || value == "1" {
					v.Set(configKey, true)
				} else if value == "false" || value == "0" {
					v.Set(configKey, false)
				}
			default:
				v.Set(configKey, value)
			}
		}
	}

	// Unmarshal config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	applySessionDefaults(&config)

	return &config, nil
}

func applySessionDefaults(cfg *Config) {
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "touchgrass-session"
	}
	if cfg.Session.CookiePath == "" {
		cfg.Session.CookiePath = "/"
	}
	if cfg.Session.ChunkSize <= 0 {
		cfg.Session.ChunkSize = 3180
	}
	if cfg.Session.MaxFragments <= 0 {
		cfg.Session.MaxFragments = 10
	}
	if cfg.Session.MaxAgeHours <= 0 {
		cfg.Session.MaxAgeHours = 24 * 7
	}
	if cfg.Auth.SessionTimeout <= 0 {
		cfg.Auth.SessionTimeout = 3 * time.Second
	}
}
