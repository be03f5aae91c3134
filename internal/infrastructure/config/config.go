// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server (serve mode)
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	CheckInterval time.Duration

	// Row store (Sheety)
	SheetyEndpoint string
	SheetyUsername string
	SheetyPassword string

	// Travel API (Amadeus)
	AmadeusBaseURL   string
	AmadeusAPIKey    string
	AmadeusAPISecret string

	// Search
	OriginCityCode string
	Currency       string
	ResolveDelay   time.Duration

	// WhatsApp (Twilio)
	TwilioSID       string
	TwilioAuthToken string
	TwilioFrom      string
	TwilioTo        string

	// MongoDB deal history, disabled when MongoURI is empty
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres airline/airport directory, disabled when empty
	PostgresURI string

	// Gmail email copy, disabled unless every field is set
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailFrom         string
	GmailTo           string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:          getEnv("PORT", "8080"),
		ReadTimeout:   time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:  time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		CheckInterval: time.Duration(getEnvAsInt("CHECK_INTERVAL", 3600)) * time.Second,

		SheetyEndpoint: strings.TrimRight(getEnv("SHEETY_PRICES_ENDPOINT", ""), "/"),
		SheetyUsername: getEnv("SHEETY_USERNAME", ""),
		SheetyPassword: getEnv("SHEETY_PASSWORD", ""),

		AmadeusBaseURL:   strings.TrimRight(getEnv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"), "/"),
		AmadeusAPIKey:    getEnv("AMADEUS_API_KEY", ""),
		AmadeusAPISecret: getEnv("AMADEUS_SECRET", ""),

		OriginCityCode: strings.ToUpper(getEnv("ORIGIN_CITY_CODE", "DEL")),
		Currency:       strings.ToUpper(getEnv("CURRENCY", "INR")),
		ResolveDelay:   time.Duration(getEnvAsInt("RESOLVE_DELAY_MS", 1500)) * time.Millisecond,

		TwilioSID:       getEnv("TWILIO_SID", ""),
		TwilioAuthToken: getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFrom:      getEnv("TWILIO_FROM", ""),
		TwilioTo:        getEnv("TWILIO_TO", ""),

		MongoURI:      getEnv("MONGODB_DSN", ""),
		MongoDB:       getEnv("MONGO_DB", "flightdeals"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailFrom:         getEnv("GMAIL_FROM", ""),
		GmailTo:           getEnv("GMAIL_TO", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every required variable that is missing
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"SHEETY_PRICES_ENDPOINT", c.SheetyEndpoint},
		{"SHEETY_USERNAME", c.SheetyUsername},
		{"SHEETY_PASSWORD", c.SheetyPassword},
		{"AMADEUS_API_KEY", c.AmadeusAPIKey},
		{"AMADEUS_SECRET", c.AmadeusAPISecret},
		{"TWILIO_SID", c.TwilioSID},
		{"TWILIO_AUTH_TOKEN", c.TwilioAuthToken},
		{"TWILIO_FROM", c.TwilioFrom},
		{"TWILIO_TO", c.TwilioTo},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if len(c.OriginCityCode) != 3 {
		return fmt.Errorf("ORIGIN_CITY_CODE must be a 3-letter IATA code (got %q)", c.OriginCityCode)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("CHECK_INTERVAL must be positive")
	}

	return nil
}

// DealHistoryEnabled reports whether MongoDB deal history is configured
func (c *Config) DealHistoryEnabled() bool {
	return c.MongoURI != ""
}

// DirectoryEnabled reports whether the Postgres airline/airport directory is configured
func (c *Config) DirectoryEnabled() bool {
	return c.PostgresURI != ""
}

// EmailCopyEnabled reports whether Gmail email copies are fully configured
func (c *Config) EmailCopyEnabled() bool {
	return c.GmailClientID != "" && c.GmailClientSecret != "" && c.GmailRefreshToken != "" &&
		c.GmailFrom != "" && c.GmailTo != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
