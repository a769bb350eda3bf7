package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load and LoadCLI,
// e.g. REPEAT_DATABASE_URL.
const EnvPrefix = "REPEAT"

// Defaults shared by the server and the command line tool.
const (
	DefaultPort                 = 8080
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "json"
	DefaultTokenLifetimeMinutes = 60
	DefaultBCryptCost           = 10
	DefaultTargetRecall         = 0.9
	DefaultMaxIntervalDays      = 256

	// The command line tool only logs problems, as text, unless told otherwise.
	DefaultCLILogLevel  = "warn"
	DefaultCLILogFormat = "text"
)

var validate = validator.New()

// NewViper returns a viper instance reading REPEAT_ environment variables
// and an optional config.yaml from the working directory.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the server configuration. Precedence, lowest first: defaults,
// config.yaml, environment variables.
func Load() (*Config, error) {
	return LoadWith(NewViper())
}

// LoadWith reads the server configuration through v.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("server.log_format", DefaultLogFormat)
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBCryptCost)
	setSRSDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadCLI reads the command line configuration through v, which may carry
// bound command line flags. Flags take precedence over the environment.
func LoadCLI(v *viper.Viper) (*CLIConfig, error) {
	dbPath, err := DefaultDBPath()
	if err != nil {
		return nil, err
	}

	v.SetDefault("db_path", dbPath)
	v.SetDefault("log_level", DefaultCLILogLevel)
	v.SetDefault("log_format", DefaultCLILogFormat)
	setSRSDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg CLIConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DefaultDBPath is repeat/cards.db under $XDG_DATA_HOME, falling back to
// ~/.local/share.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot locate data directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "repeat", "cards.db"), nil
}

func setSRSDefaults(v *viper.Viper) {
	v.SetDefault("srs.target_recall", DefaultTargetRecall)
	v.SetDefault("srs.max_interval_days", DefaultMaxIntervalDays)
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
