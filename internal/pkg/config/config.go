package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

type Config struct {
	DBUsername     string        `yaml:"db_username"`
	DBPassword     string        `yaml:"db_password"`
	DBHost         string        `yaml:"db_host"`
	DBPort         string        `yaml:"db_port"`
	DBName         string        `yaml:"db_name"`
	DisableTLS     bool          `yaml:"disable_tls"`
	JWTKey         string        `yaml:"jwt_key"`
	AccessTTL      time.Duration `yaml:"access_token_ttl"`
	RefreshTTL     time.Duration `yaml:"refresh_token_ttl"`
	RedisAddr      string        `yaml:"redis_addr"`
	RedisPassword  string        `yaml:"redis_password"`
	RedisDB        int           `yaml:"redis_db"`
	Timezone       string        `yaml:"timezone"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	LogLevel       string        `yaml:"log_level"`
	Debug          bool          `yaml:"debug"`
}

// NewConfig reads the YAML file at path and fills the optional settings
// with their defaults.
func NewConfig(path string) (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	if err = yaml.Unmarshal(yamlFile, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	if err = c.validate(); err != nil {
		return nil, err
	}

	if c.DBPort == "" {
		c.DBPort = "5432"
	}
	if c.AccessTTL == 0 {
		c.AccessTTL = defaultAccessTTL
	}
	if c.RefreshTTL == 0 {
		c.RefreshTTL = defaultRefreshTTL
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return &c, nil
}

func (c Config) validate() error {
	var missing []string

	if c.DBUsername == "" {
		missing = append(missing, "db_username")
	}
	if c.DBPassword == "" {
		missing = append(missing, "db_password")
	}
	if c.DBHost == "" {
		missing = append(missing, "db_host")
	}
	if c.DBName == "" {
		missing = append(missing, "db_name")
	}
	if c.JWTKey == "" {
		missing = append(missing, "jwt_key")
	}

	if len(missing) > 0 {
		return errors.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.AccessTTL < 0 || c.RefreshTTL < 0 {
		return errors.New("token ttl must not be negative")
	}

	return nil
}
