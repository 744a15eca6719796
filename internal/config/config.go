package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Trainer  TrainerConfig  `yaml:"trainer"`
	Backup   BackupConfig   `yaml:"backup"`
}

// DatabaseConfig holds the location of the SQLite file
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"data/myglish.db"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Mode  string `yaml:"mode"  env:"LOG_MODE"  env-default:"development"`
}

// TrainerConfig holds flashcard trainer settings
type TrainerConfig struct {
	// Seed for the deck shuffle; 0 means seed from the clock
	Seed int64 `yaml:"seed" env:"TRAINER_SEED" env-default:"0"`
}

// BackupConfig holds settings for periodic workbook snapshots
type BackupConfig struct {
	Dir      string        `yaml:"dir"      env:"BACKUP_DIR"      env-default:"data/backups"`
	Interval time.Duration `yaml:"interval" env:"BACKUP_INTERVAL" env-default:"24h"`
	Keep     int           `yaml:"keep"     env:"BACKUP_KEEP"     env-default:"7"`
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	switch strings.ToLower(c.Log.Mode) {
	case "development", "dev", "production", "prod":
	default:
		errs = append(errs, fmt.Errorf("log.mode %q is not one of development, production", c.Log.Mode))
	}
	if c.Backup.Interval < time.Minute {
		errs = append(errs, fmt.Errorf("backup.interval must be at least 1m, got %s", c.Backup.Interval))
	}
	if c.Backup.Keep < 1 {
		errs = append(errs, fmt.Errorf("backup.keep must be positive, got %d", c.Backup.Keep))
	}
	return errors.Join(errs...)
}
