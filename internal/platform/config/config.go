package config

import (
	"os"
	"path/filepath"
	"time"
)

// Client captures the client-core configuration: where the backend lives,
// how long a single request may take, and where credentials are persisted.
type Client struct {
	BaseURL         string
	RequestTimeout  time.Duration
	CredentialsPath string
}

// MockAPI captures configuration for the bundled fake backend.
type MockAPI struct {
	Addr           string
	SigningKey     string
	AccessTokenTTL time.Duration
}

var defaultRequestTimeout = 30 * time.Second
var defaultAccessTokenTTL = 15 * time.Minute

// FromEnv builds a Client config from environment variables so main stays lean.
func FromEnv() Client {
	baseURL := os.Getenv("PRAXIS_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := defaultRequestTimeout
	if raw := os.Getenv("PRAXIS_REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	credPath := os.Getenv("PRAXIS_CREDENTIALS_PATH")
	if credPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		credPath = filepath.Join(home, ".praxis", "credentials.json")
	}

	return Client{
		BaseURL:         baseURL,
		RequestTimeout:  timeout,
		CredentialsPath: credPath,
	}
}

// MockAPIFromEnv builds the fake backend config from environment variables.
func MockAPIFromEnv() MockAPI {
	addr := os.Getenv("PRAXIS_MOCKAPI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("PRAXIS_JWT_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-secret-key-change-in-production"
	}

	ttl := defaultAccessTokenTTL
	if raw := os.Getenv("PRAXIS_ACCESS_TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			ttl = d
		}
	}

	return MockAPI{
		Addr:           addr,
		SigningKey:     signingKey,
		AccessTokenTTL: ttl,
	}
}
