// Package config loads the service configuration from environment variables,
// optionally seeded from a .env file. Any missing required variable yields
// ErrInvalidConfig.
package config
