package clientcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Profile holds the connection settings for one account.
type Profile struct {
	Name            string `yaml:"name" validate:"required"`
	Host            string `yaml:"host,omitempty" validate:"omitempty,hostname_rfc1123|hostname_port"`
	Scheme          string `yaml:"scheme,omitempty" validate:"omitempty,oneof=http https"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	AccessKeySecret string `yaml:"access_key_secret,omitempty"`
	Default         bool   `yaml:"default,omitempty"`
}

// ConfigFile holds the full config file structure with multiple profiles.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles" validate:"dive"`
}

var validate = validator.New()

// Validate checks every profile.
func (c *ConfigFile) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate config file: %w", err)
	}
	return nil
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if name == "" {
		return c.GetDefaultProfile()
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// GetDefaultProfile returns the profile marked default, or the first one.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	for i := range c.Profiles {
		if c.Profiles[i].Default {
			return &c.Profiles[i], nil
		}
	}

	return &c.Profiles[0], nil
}

// AddProfile adds a new profile. Returns ErrProfileExists if a profile
// with the same name already exists.
func (c *ConfigFile) AddProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces an existing profile.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
}

// RemoveProfile removes a profile by name.
func (c *ConfigFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// SetDefault marks name as the default profile and clears the flag elsewhere.
func (c *ConfigFile) SetDefault(name string) error {
	found := false
	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
		if c.Profiles[i].Default {
			found = true
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return nil
}

// DefaultProfileName returns the name GetDefaultProfile would pick, or "".
func (c *ConfigFile) DefaultProfileName() string {
	p, err := c.GetDefaultProfile()
	if err != nil {
		return ""
	}
	return p.Name
}

// Save writes the config to path with owner-only permissions, creating the
// parent directory if needed.
func (c *ConfigFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// LoadConfigFile loads and validates the config file at path.
func LoadConfigFile(path string) (*ConfigFile, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg ConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfigPath returns ~/.acsign/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".acsign", "config.yaml")
}

// Config is the resolved client configuration after merging profile, env
// and flags.
type Config struct {
	Host            string
	Scheme          string
	AccessKeyID     string
	AccessKeySecret string
}

// ValidateWithAuth checks that credentials are set.
func (c *Config) ValidateWithAuth() error {
	if c.AccessKeyID == "" {
		return ErrAccessKeyIDRequired
	}
	if c.AccessKeySecret == "" {
		return ErrAccessKeySecretRequired
	}
	return nil
}

// ConfigFromProfile creates a Config from a Profile.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{
		Host:            p.Host,
		Scheme:          p.Scheme,
		AccessKeyID:     p.AccessKeyID,
		AccessKeySecret: p.AccessKeySecret,
	}
}

// ConfigFromEnv loads config from ACSIGN_* environment variables.
func ConfigFromEnv() *Config {
	return &Config{
		Host:            os.Getenv("ACSIGN_HOST"),
		Scheme:          os.Getenv("ACSIGN_SCHEME"),
		AccessKeyID:     os.Getenv("ACSIGN_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("ACSIGN_ACCESS_KEY_SECRET"),
	}
}

// ProfileFromEnv returns the profile name from ACSIGN_PROFILE.
func ProfileFromEnv() string {
	return os.Getenv("ACSIGN_PROFILE")
}

// ConfigPathFromEnv returns the config file path from ACSIGN_CONFIG.
func ConfigPathFromEnv() string {
	return os.Getenv("ACSIGN_CONFIG")
}

// MergeConfig merges configs with later ones taking precedence. Empty
// fields never override.
func MergeConfig(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Host != "" {
			result.Host = cfg.Host
		}
		if cfg.Scheme != "" {
			result.Scheme = cfg.Scheme
		}
		if cfg.AccessKeyID != "" {
			result.AccessKeyID = cfg.AccessKeyID
		}
		if cfg.AccessKeySecret != "" {
			result.AccessKeySecret = cfg.AccessKeySecret
		}
	}
	return result
}
