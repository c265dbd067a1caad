package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // report zones must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"
)

// CatalogConfig describes where the course catalog lives and which part of it is tracked
type CatalogConfig struct {
	URL             string         `yaml:"url" env:"CATALOG_URL"`
	Marker          string         `yaml:"marker" env:"CATALOG_MARKER"`
	SubjectCode     string         `yaml:"subject_code" env:"CATALOG_SUBJECT_CODE"`
	ExcludedCourses []int          `yaml:"excluded_courses" env:"CATALOG_EXCLUDED_COURSES"`
	MaxCourseNumber int            `yaml:"max_course_number" env:"CATALOG_MAX_COURSE_NUMBER"`
	Timeout         string         `yaml:"timeout" env:"CATALOG_TIMEOUT"`
	UserAgent       string         `yaml:"user_agent" env:"CATALOG_USER_AGENT"`
	QuarterCodes    map[string]int `yaml:"quarter_codes"`
}

// DatabaseConfig holds connection settings for the course store
type DatabaseConfig struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER"`
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	// Path is only used by the sqlite driver
	Path string `yaml:"path" env:"DB_PATH"`
}

// Config structure represents the application configuration
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Report struct {
		Timezone string `yaml:"timezone" env:"REPORT_TIMEZONE"`
	} `yaml:"report"`
}

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// yaml.v3 merges into a non-nil map; clear it so a file table replaces the defaults
		defaultQuarters := config.Catalog.QuarterCodes
		config.Catalog.QuarterCodes = nil
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if len(config.Catalog.QuarterCodes) == 0 {
			config.Catalog.QuarterCodes = defaultQuarters
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Default returns a configuration populated with defaults only
func Default() *Config {
	config := &Config{}
	setDefaults(config)
	return config
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Catalog defaults
	config.Catalog.URL = "https://ecampus.oregonstate.edu/soc/ecatalog/ecourselist.htm?termcode=all&subject=CS"
	config.Catalog.Marker = `[{"SubjectCode":"CS","CourseNumber":`
	config.Catalog.SubjectCode = "CS"
	config.Catalog.ExcludedCourses = []int{101, 151, 165, 175, 201, 461, 462, 463}
	config.Catalog.MaxCourseNumber = 499
	config.Catalog.Timeout = "30s"
	config.Catalog.UserAgent = "castor-catalog-check/1.0"
	config.Catalog.QuarterCodes = map[string]int{
		"W": 0, "Sp": 1, "Su": 2, "F": 3,
		"Winter": 0, "Spring": 1, "Summer": 2, "Fall": 3,
	}

	// Database defaults
	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "castor"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 1
	config.Database.MaxOpenConns = 4
	config.Database.ConnMaxLifetime = "1h"
	config.Database.Path = "castor.db"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "console"

	config.Report.Timezone = "America/Los_Angeles"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Catalog.URL == "" {
		return fmt.Errorf("catalog url is required")
	}

	if config.Catalog.Marker == "" {
		return fmt.Errorf("catalog marker is required")
	}

	if strings.TrimSpace(config.Catalog.SubjectCode) == "" {
		return fmt.Errorf("catalog subject code is required")
	}

	if config.Catalog.MaxCourseNumber <= 0 {
		return fmt.Errorf("catalog max course number must be positive")
	}

	if _, err := time.ParseDuration(config.Catalog.Timeout); err != nil {
		return fmt.Errorf("invalid catalog timeout format: %w", err)
	}

	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime format: %w", err)
		}
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if _, err := time.LoadLocation(config.Report.Timezone); err != nil {
		return fmt.Errorf("invalid report timezone: %w", err)
	}

	return nil
}

// FetchTimeout returns the parsed fetch timeout
func (c CatalogConfig) FetchTimeout() time.Duration {
	return GetDuration(c.Timeout, 30*time.Second)
}

// ReportLocation returns the zone used for report timestamps, falling back to UTC
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetDuration parses a duration string or returns a default value
func GetDuration(value string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
