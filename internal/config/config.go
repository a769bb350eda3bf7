package config

import "github.com/phrazzld/repeat/internal/domain/srs"

// Config holds the configuration of the API server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"required,oneof=json text"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lte=43200"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// SRSConfig tunes the scheduler. The FSRS weights themselves are fixed.
type SRSConfig struct {
	TargetRecall    float64 `mapstructure:"target_recall" validate:"required,gt=0,lt=1"`
	MaxIntervalDays int     `mapstructure:"max_interval_days" validate:"required,gte=1,lte=256"`
}

// Params builds scheduler parameters from the configuration.
func (c SRSConfig) Params() *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		TargetRecall:    c.TargetRecall,
		MaxIntervalDays: c.MaxIntervalDays,
	})
}

// CLIConfig holds the configuration of the repeat command line tool.
type CLIConfig struct {
	DBPath    string    `mapstructure:"db_path" validate:"required"`
	LogLevel  string    `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string    `mapstructure:"log_format" validate:"required,oneof=json text"`
	SRS       SRSConfig `mapstructure:"srs" validate:"required"`
}
