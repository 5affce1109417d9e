package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	defaultPort            = 8080
	defaultTimezone        = "Europe/Amsterdam"
	defaultSessionTTL      = 30 * time.Minute
	defaultJanitorInterval = time.Minute
	defaultDwell           = 3 * time.Second
	defaultRateLimitRPS    = 5
	defaultRateLimitBurst  = 10
)

// Config holds the process configuration. Values come from the environment;
// cmd/api loads a .env file first through godotenv/autoload.
//
// Supported env vars:
//   - PORT (default: 8080)
//   - GIN_MODE (debug | release | test)
//   - TIMEZONE (default: Europe/Amsterdam) used for business-day generation
//   - CORS_ALLOWED_ORIGINS comma separated (default: *)
//   - RATE_LIMIT_RPS / RATE_LIMIT_BURST
//   - BOOKING_SESSION_TTL, BOOKING_JANITOR_INTERVAL, BOOKING_CONFIRMATION_DWELL (Go durations)
//   - BOOKING_TIME_SLOTS comma separated HH:MM start times (default: the built-in slots)
//   - RESEND_API_KEY, BOOKING_FROM_EMAIL, BOOKING_FROM_NAME
//   - SQS_QUEUE_URL, SQS_ENDPOINT
//
// DynamoDB settings (AWS_REGION, DYNAMODB_ENDPOINT, QUOTES_TABLE, BOOKINGS_TABLE)
// are read by the infrastructure and repository packages directly.
type Config struct {
	Port     int
	GinMode  string
	Timezone string

	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int

	SessionTTL        time.Duration
	JanitorInterval   time.Duration
	ConfirmationDwell time.Duration
	// TimeSlots is nil unless BOOKING_TIME_SLOTS holds at least one valid slot.
	TimeSlots []string

	ResendAPIKey string
	FromEmail    string
	FromName     string

	SQSQueueURL string
	SQSEndpoint string
}

func Load() Config {
	return Config{
		Port:               getenvInt("PORT", defaultPort),
		GinMode:            getenvDefault("GIN_MODE", "debug"),
		Timezone:           getenvDefault("TIMEZONE", defaultTimezone),
		CORSAllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getenvInt("RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:     getenvInt("RATE_LIMIT_BURST", defaultRateLimitBurst),
		SessionTTL:         getenvDuration("BOOKING_SESSION_TTL", defaultSessionTTL),
		JanitorInterval:    getenvDuration("BOOKING_JANITOR_INTERVAL", defaultJanitorInterval),
		ConfirmationDwell:  getenvDuration("BOOKING_CONFIRMATION_DWELL", defaultDwell),
		TimeSlots:          getenvSlots("BOOKING_TIME_SLOTS"),
		ResendAPIKey:       os.Getenv("RESEND_API_KEY"),
		FromEmail:          getenvDefault("BOOKING_FROM_EMAIL", "afspraken@sterlingpartners.nl"),
		FromName:           getenvDefault("BOOKING_FROM_NAME", "Sterling & Partners"),
		SQSQueueURL:        os.Getenv("SQS_QUEUE_URL"),
		SQSEndpoint:        os.Getenv("SQS_ENDPOINT"),
	}
}

// Location resolves Timezone, falling back to UTC when the zone is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvList(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// getenvSlots keeps the entries that parse as 15:04, in order and without duplicates.
func getenvSlots(key string) []string {
	var out []string
	seen := map[string]bool{}
	for _, slot := range getenvList(key, nil) {
		t, err := time.Parse("15:04", slot)
		if err != nil {
			continue
		}
		slot = t.Format("15:04")
		if seen[slot] {
			continue
		}
		seen[slot] = true
		out = append(out, slot)
	}
	return out
}
