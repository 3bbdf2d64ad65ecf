package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/acsign"
	"github.com/sagarc03/acsign/database"
	acshttp "github.com/sagarc03/acsign/http"
	"github.com/sagarc03/acsign/keybackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the mock gateway.
type Config struct {
	Server   ServerConfig       `mapstructure:"server"`
	Database database.Config    `mapstructure:"database"`
	Nonce    NonceConfig        `mapstructure:"nonce"`
	Auth     AuthConfig         `mapstructure:"auth"`
	CORS     acshttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig          `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxBodySize int64         `mapstructure:"max_body_size" validate:"min=0"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"min=0"`
}

// NonceConfig controls replay protection.
type NonceConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Retention is how long accepted nonces are kept, measured from their
	// x-acs-date. It must be at least auth.max_skew.
	Retention     time.Duration `mapstructure:"retention" validate:"min=0"`
	PurgeInterval time.Duration `mapstructure:"purge_interval" validate:"min=0"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Required      bool                  `mapstructure:"required"`
	MaxSkew       time.Duration         `mapstructure:"max_skew" validate:"min=0"`
	VerifyPayload bool                  `mapstructure:"verify_payload"`
	Keys          keybackend.KeysConfig `mapstructure:"keys"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":        "database.type",
	"db-dsn":         "database.dsn",
	"port":           "server.port",
	"max-skew":       "auth.max_skew",
	"verify-payload": "auth.verify_payload",
	"keys-file":      "auth.keys.file",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_size", 10<<20)
	v.SetDefault("server.read_timeout", 30*time.Second)

	v.SetDefault("database.type", database.TypeMemory)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", database.DefaultTable)

	v.SetDefault("nonce.enabled", true)
	v.SetDefault("nonce.retention", 2*acsign.DefaultMaxSkew)
	v.SetDefault("nonce.purge_interval", time.Minute)

	v.SetDefault("auth.required", true)
	v.SetDefault("auth.max_skew", acsign.DefaultMaxSkew)
	v.SetDefault("auth.verify_payload", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("acs-mock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("ACSIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Nonce.check(cfg.Auth.MaxSkew); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (n NonceConfig) check(maxSkew time.Duration) error {
	if !n.Enabled {
		return nil
	}
	if n.PurgeInterval <= 0 {
		return errors.New("nonce.purge_interval must be positive")
	}
	if n.Retention <= 0 {
		return errors.New("nonce.retention must be positive")
	}
	if n.Retention < maxSkew {
		return fmt.Errorf("nonce.retention %s must be at least auth.max_skew %s", n.Retention, maxSkew)
	}
	return nil
}
