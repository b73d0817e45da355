package config

import (
	"os"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	OAuth      OAuthConfig
	Cloudinary CloudinaryConfig
	Email      EmailConfig
	SMS        SMSConfig
	Firebase   FirebaseConfig
	Reminders  ReminderConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ClientURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// EmailConfig for transactional email via Resend. Empty APIKey disables the channel.
type EmailConfig struct {
	APIKey    string
	FromEmail string
}

// SMSConfig for the Twilio REST API. Empty AccountSID disables the channel.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

type FirebaseConfig struct {
	ServiceAccountPath string
}

// ReminderConfig controls the background scheduler. The lookahead windows are
// fixed product behavior; only the cadence is tunable.
type ReminderConfig struct {
	ScanInterval   time.Duration
	EmailLookahead time.Duration
	SMSLookahead   time.Duration
	RetentionDays  int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8080"),
			Env:          getenv("APP_ENV", "development"),
			ClientURL:    getenv("CLIENT_URL", "http://localhost:3000"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "skillswap:skillswap@tcp(localhost:3306)/skillswap?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "skillswap",
		},
		OAuth: OAuthConfig{
			GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Email: EmailConfig{
			APIKey:    os.Getenv("RESEND_API_KEY"),
			FromEmail: getenv("FROM_EMAIL", "notifications@skillswap.app"),
		},
		SMS: SMSConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		Firebase: FirebaseConfig{
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Reminders: ReminderConfig{
			ScanInterval:   5 * time.Minute,
			EmailLookahead: time.Hour,
			SMSLookahead:   30 * time.Minute,
			RetentionDays:  30,
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
