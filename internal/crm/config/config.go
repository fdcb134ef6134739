// Package config loads the YAML configuration of the CRM service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gartstein/crm/internal/crm/db"
	"github.com/gartstein/crm/internal/crm/events"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor CRM_CONFIG is given.
const DefaultPath = "internal/crm/config/config.yaml"

// Config struct for YAML configuration
type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`
	// PublicURL is the base of the links in responses. Empty means the
	// scheme and host of each request.
	PublicURL      string `yaml:"PUBLIC_URL"`
	DateTimeFormat string `yaml:"DATETIME_FORMAT"`
	LogLevel       string `yaml:"LOG_LEVEL"`
	LogFormat      string `yaml:"LOG_FORMAT"`

	DBDriver         string        `yaml:"DB_DRIVER"`
	DBHost           string        `yaml:"DB_HOST"`
	DBPort           int           `yaml:"DB_PORT"`
	DBUser           string        `yaml:"DB_USER"`
	DBPassword       string        `yaml:"DB_PASSWORD"`
	DBName           string        `yaml:"DB_NAME"`
	DBSSLMode        string        `yaml:"DB_SSLMODE"`
	DBPath           string        `yaml:"DB_PATH"`
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT"`

	KafkaBrokers    []string `yaml:"KAFKA_BROKERS"`
	Topic           string   `yaml:"TOPIC"`
	ConsumerGroup   string   `yaml:"CONSUMER_GROUP"`
	EventQueueSize  int      `yaml:"EVENT_QUEUE_SIZE"`
	TopicPartitions int      `yaml:"TOPIC_PARTITIONS"`

	// JWTSecret enables bearer token checks on write requests when set.
	JWTSecret string `yaml:"JWT_SECRET"`
}

// Default returns the settings used for keys absent from the file.
func Default() Config {
	return Config{
		GRPCPort:         50051,
		HTTPPort:         8080,
		DateTimeFormat:   time.DateTime,
		LogLevel:         "info",
		LogFormat:        "json",
		DBDriver:         db.DriverPostgres,
		DBHost:           "localhost",
		DBPort:           5432,
		DBSSLMode:        "disable",
		DBPath:           "crm.db",
		DBConnectTimeout: 30 * time.Second,
		Topic:            "crm.events",
		ConsumerGroup:    "crm-events",
		EventQueueSize:   events.DefaultQueueSize,
		TopicPartitions:  3,
	}
}

// Load reads the file at path over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets secrets and deployment-specific values come from the
// environment instead of the file.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	set("DB_PASSWORD", &c.DBPassword)
	set("DB_HOST", &c.DBHost)
	set("DB_DRIVER", &c.DBDriver)
	set("JWT_SECRET", &c.JWTSecret)
	set("PUBLIC_URL", &c.PublicURL)
	set("LOG_LEVEL", &c.LogLevel)
	if v, ok := lookup("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitBrokers(v)
	}
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d out of range", c.HTTPPort))
	}
	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT %d out of range", c.GRPCPort))
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, errors.New("GRPC_PORT and HTTP_PORT must differ"))
	}
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverMySQL:
		if c.DBHost == "" || c.DBName == "" {
			errs = append(errs, fmt.Errorf("DB_HOST and DB_NAME are required for %s", c.DBDriver))
		}
	case db.DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if len(c.KafkaBrokers) > 0 && c.Topic == "" {
		errs = append(errs, errors.New("TOPIC is required when KAFKA_BROKERS is set"))
	}
	return errors.Join(errs...)
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:         c.DBDriver,
		Host:           c.DBHost,
		Port:           c.DBPort,
		User:           c.DBUser,
		Password:       c.DBPassword,
		DBName:         c.DBName,
		SSLMode:        c.DBSSLMode,
		Path:           c.DBPath,
		ConnectTimeout: c.DBConnectTimeout,
	}
}

// Producer returns the Kafka producer settings.
func (c *Config) Producer() events.ProducerConfig {
	return events.ProducerConfig{
		Brokers:    c.KafkaBrokers,
		Topic:      c.Topic,
		Partitions: c.TopicPartitions,
		QueueSize:  c.EventQueueSize,
	}
}
