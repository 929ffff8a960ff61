/**
 * @description
 * This package handles the configuration management for all services. It uses
 * the Viper library to read configuration from environment variables (with an
 * optional .env file), providing a centralized way to manage settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables shared by the services.
// These values are loaded from environment variables.
type Config struct {
	ServerPort           string `mapstructure:"SERVER_PORT"`
	DatabaseURL          string `mapstructure:"DATABASE_URL"`
	RabbitMQURL          string `mapstructure:"RABBITMQ_URL"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`
	SessionTTLMinutes    int    `mapstructure:"SESSION_TTL_MINUTES"`
	OTPExpiryMinutes     int    `mapstructure:"OTP_EXPIRY_MINUTES"`
	OTPTokenTTLMinutes   int    `mapstructure:"OTP_TOKEN_TTL_MINUTES"`
	LowStockThreshold    int    `mapstructure:"LOW_STOCK_THRESHOLD"`
	PredictionSchedule   string `mapstructure:"PREDICTION_JOB_SCHEDULE"`
	PredictionWindowDays int    `mapstructure:"PREDICTION_WINDOW_DAYS"`
	NotificationQueue    string `mapstructure:"NOTIFICATION_QUEUE"`
	CORSAllowedOrigins   string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

// ErrMissingJWTSecret is returned by RequireJWTSecret when no signing secret
// is configured. Services that mint or verify tokens treat this as fatal at
// startup.
var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 2)
	viper.SetDefault("OTP_TOKEN_TTL_MINUTES", 10)
	viper.SetDefault("LOW_STOCK_THRESHOLD", 10)
	viper.SetDefault("PREDICTION_JOB_SCHEDULE", "0 2 * * *")
	viper.SetDefault("PREDICTION_WINDOW_DAYS", 30)
	viper.SetDefault("NOTIFICATION_QUEUE", "notification_service.events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("SESSION_TTL_MINUTES")
	_ = viper.BindEnv("OTP_EXPIRY_MINUTES")
	_ = viper.BindEnv("OTP_TOKEN_TTL_MINUTES")
	_ = viper.BindEnv("LOW_STOCK_THRESHOLD")
	_ = viper.BindEnv("PREDICTION_JOB_SCHEDULE")
	_ = viper.BindEnv("PREDICTION_WINDOW_DAYS")
	_ = viper.BindEnv("NOTIFICATION_QUEUE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	return config, err
}

// RequireJWTSecret validates that a signing secret is present. Absence is a
// startup-fatal condition, never a per-request error.
func (c Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
