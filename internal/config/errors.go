// Package config defines service configuration structures and loading hooks.
package config

import "errors"

var (
	// ErrInvalidConfig wraps every problem Validate finds, joined.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the YAML file, the dotenv file
	// or TEAMIQ_ env vars.
	ErrLoadConfig = errors.New("load config failed")
)
