package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	Upstream  UpstreamConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type AuthConfig struct {
	// PasswordHash is the bcrypt hash of the single operator password.
	PasswordHash string
	JWTSecret    string
	SessionTTL   time.Duration
}

type DatabaseConfig struct {
	Path string
}

type UpstreamConfig struct {
	ProductionURL string
	SandboxURL    string
	Timeout       time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type LoggerConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "registro-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("AUTH_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("AUTH_SESSION_MINUTES", 30)
	viper.SetDefault("DB_PATH", "./registro.db")
	viper.SetDefault("UPSTREAM_PRODUCTION_URL", "https://api.openapi.it")
	viper.SetDefault("UPSTREAM_SANDBOX_URL", "https://sandbox.openapi.it")
	viper.SetDefault("UPSTREAM_TIMEOUT_SECONDS", 30)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Auth: AuthConfig{
			PasswordHash: viper.GetString("AUTH_PASSWORD_HASH"),
			JWTSecret:    viper.GetString("AUTH_JWT_SECRET"),
			SessionTTL:   time.Duration(viper.GetInt("AUTH_SESSION_MINUTES")) * time.Minute,
		},
		Database: DatabaseConfig{
			Path: viper.GetString("DB_PATH"),
		},
		Upstream: UpstreamConfig{
			ProductionURL: viper.GetString("UPSTREAM_PRODUCTION_URL"),
			SandboxURL:    viper.GetString("UPSTREAM_SANDBOX_URL"),
			Timeout:       time.Duration(viper.GetInt("UPSTREAM_TIMEOUT_SECONDS")) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Logger: LoggerConfig{
			Level:      viper.GetString("LOG_LEVEL"),
			Format:     viper.GetString("LOG_FORMAT"),
			OutputPath: viper.GetString("LOG_OUTPUT_PATH"),
		},
	}
}
