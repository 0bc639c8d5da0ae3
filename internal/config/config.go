package config

import (
	"errors"
	"os"
	"strings"
)

// Config carries every recognized environment option. Twilio credentials are
// optional: leaving them unset disables SMS delivery without affecting
// request creation.
type Config struct {
	Port      string
	MongoURI  string
	Database  string
	JWTSecret string

	DefaultAdminEmail    string
	DefaultAdminPassword string
	AllowAdminSignup     bool

	TwilioSID       string
	TwilioAuthToken string
	TwilioPhone     string
}

func Load() (*Config, error) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = os.Getenv("MONGODB")
	}
	if uri == "" {
		return nil, errors.New("no MongoDB connection string found in environment (MONGODB_URI / MONGODB)")
	}

	cfg := &Config{
		Port:                 getEnv("PORT", "5000"),
		MongoURI:             uri,
		Database:             getEnv("MONGODB_DATABASE", "bloodlink"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-me"),
		DefaultAdminEmail:    strings.ToLower(getEnv("DEFAULT_ADMIN_EMAIL", "admin@gmail.com")),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		AllowAdminSignup:     strings.EqualFold(os.Getenv("ALLOW_ADMIN_SIGNUP"), "true"),
		TwilioSID:            os.Getenv("TWILIO_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhone:          os.Getenv("TWILIO_PHONE"),
	}
	return cfg, nil
}

// SMSConfigured reports whether all Twilio credentials are present.
func (c *Config) SMSConfigured() bool {
	return c.TwilioSID != "" && c.TwilioAuthToken != "" && c.TwilioPhone != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
