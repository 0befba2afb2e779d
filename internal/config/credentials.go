package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credentials authenticate against the browser provisioning service.
type Credentials struct {
	APIKey    string `env:"BROWSERBASE_API_KEY"`
	ProjectID string `env:"BROWSERBASE_PROJECT_ID"`
}

// ErrMissingCredentials is returned when the provisioning API key or project id is unset.
var ErrMissingCredentials = errors.New("BROWSERBASE_API_KEY and BROWSERBASE_PROJECT_ID must be set")

// LoadCredentials reads provisioning credentials from the environment.
func LoadCredentials() (Credentials, error) {
	var c Credentials
	if err := env.Parse(&c); err != nil {
		return Credentials{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// Validate reports ErrMissingCredentials when either value is empty.
func (c Credentials) Validate() error {
	if c.APIKey == "" || c.ProjectID == "" {
		return ErrMissingCredentials
	}
	return nil
}
