package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	PublicURL   string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	// AdminToken gates organizer endpoints.
	AdminToken string

	// RSVPTokenSecret signs guest RSVP tokens.
	RSVPTokenSecret string
	RSVPTokenTTL    time.Duration

	// Process-wide fallbacks for event-scoped provider credentials.
	ResendAPIKey   string
	SendGridAPIKey string

	GmailClientID       string
	GmailClientSecret   string
	GmailRedirectURI    string
	OutlookClientID     string
	OutlookClientSecret string
	OutlookRedirectURI  string

	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppCountryCode   string

	OAuthStateStore string
	OAuthStateTTL   time.Duration
	RedisAddr       string
	RedisPassword   string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	publicURL := strings.TrimRight(getenv("PUBLIC_URL", "http://localhost:8080"), "/")

	return Config{
		AppName:     getenv("APP_SERVICE", "vowsuite"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		PublicURL:   publicURL,

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		OtelEnabled:          getenvBool("OTEL_ENABLED", false),
		OtelExporterEndpoint: getenv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
		OtelExporterProtocol: strings.ToLower(getenv("OTEL_EXPORTER_PROTOCOL", "grpc")),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "vowsuite"),
		DBUser:            getenv("DATABASE_USER", "vowsuite"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		AdminToken: strings.TrimSpace(getenv("ADMIN_TOKEN", "")),

		RSVPTokenSecret: strings.TrimSpace(getenv("RSVP_TOKEN_SECRET", "")),
		RSVPTokenTTL:    getenvDuration("RSVP_TOKEN_TTL", 30*24*time.Hour),

		ResendAPIKey:   strings.TrimSpace(getenv("RESEND_API_KEY", "")),
		SendGridAPIKey: strings.TrimSpace(getenv("SENDGRID_API_KEY", "")),

		GmailClientID:       strings.TrimSpace(getenv("GMAIL_CLIENT_ID", "")),
		GmailClientSecret:   strings.TrimSpace(getenv("GMAIL_CLIENT_SECRET", "")),
		GmailRedirectURI:    strings.TrimSpace(getenv("GMAIL_REDIRECT_URI", publicURL+"/api/oauth/gmail/callback")),
		OutlookClientID:     strings.TrimSpace(getenv("OUTLOOK_CLIENT_ID", "")),
		OutlookClientSecret: strings.TrimSpace(getenv("OUTLOOK_CLIENT_SECRET", "")),
		OutlookRedirectURI:  strings.TrimSpace(getenv("OUTLOOK_REDIRECT_URI", publicURL+"/api/oauth/outlook/callback")),

		WhatsAppPhoneNumberID: strings.TrimSpace(getenv("WHATSAPP_PHONE_NUMBER_ID", "")),
		WhatsAppAccessToken:   strings.TrimSpace(getenv("WHATSAPP_ACCESS_TOKEN", "")),
		WhatsAppCountryCode:   strings.TrimSpace(getenv("WHATSAPP_DEFAULT_COUNTRY_CODE", "")),

		OAuthStateStore: strings.ToLower(getenv("OAUTH_STATE_STORE", "memory")),
		OAuthStateTTL:   getenvDuration("OAUTH_STATE_TTL", 10*time.Minute),
		RedisAddr:       strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewTemplateHolder),
)
