package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

type DbDriver string

const (
	DbDriverBolt     DbDriver = "bolt"
	DbDriverSQLite   DbDriver = "sqlite"
	DbDriverPostgres DbDriver = "postgres"
	DbDriverMySQL    DbDriver = "mysql"
)

func (d DbDriver) IsValid() bool {
	switch d {
	case DbDriverBolt, DbDriverSQLite, DbDriverPostgres, DbDriverMySQL:
		return true
	default:
		return false
	}
}

// DbConfig holds connection settings for a single database backend.
// For bolt and sqlite, Hostname is the path of the database file.
type DbConfig struct {
	Hostname string            `json:"host" env:"HOST"`
	Username string            `json:"user" env:"USER"`
	Password string            `json:"pass" env:"PASS"`
	DbName   string            `json:"name" env:"NAME"`
	Options  map[string]string `json:"options" env:"OPTIONS"`
}

func (c DbConfig) IsPresent() bool {
	return c.Hostname != ""
}

type RedisConfig struct {
	Addr          string `json:"addr" env:"ADDR"`
	DB            int    `json:"db" env:"DB"`
	User          string `json:"user" env:"USER"`
	Pass          string `json:"pass" env:"PASS"`
	TLS           bool   `json:"tls" env:"TLS"`
	TLSSkipVerify bool   `json:"tls_skip_verify" env:"TLS_SKIP_VERIFY"`
	Channel       string `json:"channel" env:"CHANNEL"`
}

func (c RedisConfig) IsEnabled() bool {
	return c.Addr != ""
}

type LogConfig struct {
	Level      string `json:"level" env:"LEVEL"`
	Format     string `json:"format" env:"FORMAT"`
	File       string `json:"file" env:"FILE"`
	MaxSizeMB  int    `json:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `json:"max_backups" env:"MAX_BACKUPS"`
}

// ConfigType mirrors the JSON configuration file. Every field can be
// overridden by a TASKFLOW_ prefixed environment variable.
type ConfigType struct {
	Dialect  DbDriver `json:"dialect" env:"DB_DIALECT"`
	Bolt     DbConfig `json:"bolt" envPrefix:"BOLT_"`
	SQLite   DbConfig `json:"sqlite" envPrefix:"SQLITE_"`
	Postgres DbConfig `json:"postgres" envPrefix:"PG_"`
	MySQL    DbConfig `json:"mysql" envPrefix:"MYSQL_"`

	// Port the HTTP server listens on, in ":8080" form.
	Port string `json:"port" env:"PORT"`
	// PublicURL is used to build links sent to invitees.
	PublicURL string `json:"public_url" env:"PUBLIC_URL"`

	InvitationExpiryDays    int    `json:"invitation_expiry_days" env:"INVITATION_EXPIRY_DAYS"`
	InvitationSweepSchedule string `json:"invitation_sweep_schedule" env:"INVITATION_SWEEP_SCHEDULE"`

	Redis RedisConfig `json:"redis" envPrefix:"REDIS_"`
	Log   LogConfig   `json:"log" envPrefix:"LOG_"`
}

// Config is the process wide configuration, set by LoadConfig.
var Config *ConfigType

const envPrefix = "TASKFLOW_"

func NewDefaultConfig() *ConfigType {
	return &ConfigType{
		Dialect:                 DbDriverBolt,
		Bolt:                    DbConfig{Hostname: "taskflow.bolt"},
		Port:                    ":8080",
		PublicURL:               "http://localhost:8080",
		InvitationExpiryDays:    7,
		InvitationSweepSchedule: "@hourly",
		Redis:                   RedisConfig{Channel: "taskflow:events"},
		Log:                     LogConfig{Level: "info", Format: "text", MaxSizeMB: 100, MaxBackups: 3},
	}
}

// LoadConfig builds the configuration from defaults, the optional JSON file
// at path and the environment, in that order of precedence.
func LoadConfig(path string) (*ConfigType, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (conf *ConfigType) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open config file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck

	if err = json.NewDecoder(file).Decode(conf); err != nil {
		return fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return nil
}

func (conf *ConfigType) Validate() error {
	if !conf.Dialect.IsValid() {
		return fmt.Errorf("unsupported database dialect %q", conf.Dialect)
	}

	if _, err := conf.GetDBConfig(); err != nil {
		return err
	}

	if conf.InvitationExpiryDays <= 0 {
		return errors.New("invitation_expiry_days must be greater than zero")
	}

	if _, err := url.Parse(conf.PublicURL); err != nil {
		return fmt.Errorf("invalid public_url: %w", err)
	}

	if conf.Port != "" && !strings.HasPrefix(conf.Port, ":") {
		conf.Port = ":" + conf.Port
	}

	return nil
}

// GetDBConfig returns connection settings of the selected dialect.
func (conf *ConfigType) GetDBConfig() (DbConfig, error) {
	var dbConfig DbConfig

	switch conf.Dialect {
	case DbDriverBolt:
		dbConfig = conf.Bolt
	case DbDriverSQLite:
		dbConfig = conf.SQLite
	case DbDriverPostgres:
		dbConfig = conf.Postgres
	case DbDriverMySQL:
		dbConfig = conf.MySQL
	}

	if !dbConfig.IsPresent() {
		return dbConfig, fmt.Errorf("database host is not configured for dialect %q", conf.Dialect)
	}

	return dbConfig, nil
}

// InvitationURL builds the link an invitee follows to accept an invitation.
func (conf *ConfigType) InvitationURL(token string) string {
	base := strings.TrimSuffix(conf.PublicURL, "/")
	return base + "/invitations/accept?token=" + url.QueryEscape(token)
}
