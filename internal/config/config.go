// Package config loads the process configuration from the environment
// once at startup. Business logic never reads environment variables
// directly; everything flows through the Config struct.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the service needs.
type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	PublicURL string `env:"PUBLIC_URL,required,notEmpty"`

	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID,required,notEmpty"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN,required,notEmpty"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER,required,notEmpty"`

	ZohoCRMURI       string `env:"ZOHOCRM_URI,required,notEmpty"`
	ZohoCRMDC        string `env:"ZOHOCRM_DC,required,notEmpty"`
	ZohoClientID     string `env:"ZOHO_CLIENT_ID,required,notEmpty"`
	ZohoClientSecret string `env:"ZOHO_CLIENT_SECRET,required,notEmpty"`
	ZohoScope        string `env:"ZOHO_SCOPE,required,notEmpty"`
	ZohoSOID         string `env:"ZOHO_SOID,required,notEmpty"`

	// Fallback search filter values for webhook bodies that carry no
	// creator or venue of their own.
	MeetingCreator string `env:"MEETING_CREATOR"`
	MeetingVenue   string `env:"MEETING_VENUE"`

	DeliverySettingsPath string `env:"DELIVERY_SETTINGS" envDefault:"configs/delivery.yaml"`
}

// Load reads an optional .env file, parses the environment, and validates
// the result.
func Load() (*Config, error) {
	// .env is optional when the variables come from the real environment
	// (Docker, CI, ...).
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.PublicURL, "http://") && !strings.HasPrefix(c.PublicURL, "https://") {
		return fmt.Errorf("config: PUBLIC_URL must be an absolute URL, got %q", c.PublicURL)
	}
	c.PublicURL = strings.TrimSuffix(c.PublicURL, "/")
	return nil
}

// TokenURL returns the OAuth token endpoint for the configured CRM data
// center.
func (c *Config) TokenURL() string {
	return fmt.Sprintf("https://accounts.zoho.%s/oauth/v2/token", c.ZohoCRMDC)
}

// SOID returns the fully qualified service org id the token endpoint
// expects.
func (c *Config) SOID() string {
	return "ZohoCRM." + c.ZohoSOID
}
