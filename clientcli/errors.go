package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrAccessKeyIDRequired     = errors.New("access key id is required")
	ErrAccessKeySecretRequired = errors.New("access key secret is required")
	ErrConfigRequired          = errors.New("config is required")
)
