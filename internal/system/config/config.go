// Package config provides configuration loading for the Licence Management Service.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type PDFGeneratorConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	PDFGenerator PDFGeneratorConfig `mapstructure:"pdf_generator"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	CORS         CORSConfig         `mapstructure:"cors"`
}

var globalConfig *Config

// Load reads the deployment configuration from the given path, applying
// environment variable overrides with the LICENCE_MGT_ prefix.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("deployment")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("repository/conf")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LICENCE_MGT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.name", "licencedb")
	v.SetDefault("pdf_generator.enabled", false)
	v.SetDefault("pdf_generator.timeout_seconds", 30)
	v.SetDefault("logging.level", "info")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name must not be empty")
	}
	if cfg.PDFGenerator.Enabled && cfg.PDFGenerator.BaseURL == "" {
		return fmt.Errorf("pdf_generator.base_url must be set when the generator is enabled")
	}
	return nil
}

// SetGlobal stores the loaded configuration for process-wide access.
func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

// Get returns the process-wide configuration. It panics if SetGlobal has
// not been called.
func Get() *Config {
	if globalConfig == nil {
		panic("configuration has not been loaded")
	}
	return globalConfig
}

// GetDSN builds the MySQL data source name for the licence database.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&multiStatements=true",
		c.Username, c.Password, c.Host, c.Port, c.Name)
}
