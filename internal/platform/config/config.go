package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration for the reminder service.
type Server struct {
	Addr          string
	CityFeedURL   string
	SMSWebhookURL string
	Timezone      string
	DispatchHour  int
	LookupTimeout time.Duration
	SendTimeout   time.Duration
	Environment   string
}

// Defaults. The reference timezone drives every "tomorrow" computation in the
// system, so it lives here rather than being derived from the host clock.
var (
	DefaultTimezone      = "America/Chicago"
	DefaultDispatchHour  = 20
	DefaultLookupTimeout = 5 * time.Second
	DefaultSendTimeout   = 5 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("CURBSIDE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	feedURL := os.Getenv("CITY_FEED_URL")
	if feedURL == "" {
		feedURL = "https://itmdapps.milwaukee.gov/DpwServletsPublicAll/garbageDayService"
	}

	webhookURL := os.Getenv("SMS_WEBHOOK_URL")

	tz := os.Getenv("CURBSIDE_TZ")
	if tz == "" {
		tz = DefaultTimezone
	}

	dispatchHour := DefaultDispatchHour
	if raw := os.Getenv("DISPATCH_HOUR"); raw != "" {
		if h, err := strconv.Atoi(raw); err == nil && h >= 0 && h <= 23 {
			dispatchHour = h
		}
	}

	lookupTimeout := DefaultLookupTimeout
	if raw := os.Getenv("LOOKUP_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			lookupTimeout = d
		}
	}

	sendTimeout := DefaultSendTimeout
	if raw := os.Getenv("SEND_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			sendTimeout = d
		}
	}

	environment := os.Getenv("CURBSIDE_ENV")
	if environment == "" {
		environment = "development"
	}

	return Server{
		Addr:          addr,
		CityFeedURL:   feedURL,
		SMSWebhookURL: webhookURL,
		Timezone:      tz,
		DispatchHour:  dispatchHour,
		LookupTimeout: lookupTimeout,
		SendTimeout:   sendTimeout,
		Environment:   environment,
	}
}

// Location resolves the configured reference timezone, falling back to UTC if
// the zone database does not know it.
func (s Server) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
