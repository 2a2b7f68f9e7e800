package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Queue struct {
		Workers        int `yaml:"workers"`         // delivery worker pool size
		MaxRetries     int `yaml:"max_retries"`     // total delivery attempts per task
		RetryDelaySec  int `yaml:"retry_delay"`     // base backoff in seconds, doubles per attempt
		AttemptTimeout int `yaml:"attempt_timeout"` // per-attempt delivery timeout in seconds
	} `yaml:"queue"`

	Reconcile struct {
		IntervalMin int `yaml:"interval"` // sweep interval in minutes
		GraceMin    int `yaml:"grace"`    // minimum age before a pending match is re-enqueued
	} `yaml:"reconcile"`

	Delivery struct {
		Channel string `yaml:"channel"` // "email" or "log"
	} `yaml:"delivery"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test and container deployments).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 2
	}
	if cfg.Queue.MaxRetries <= 0 {
		cfg.Queue.MaxRetries = 3
	}
	if cfg.Queue.RetryDelaySec <= 0 {
		cfg.Queue.RetryDelaySec = 10
	}
	if cfg.Queue.AttemptTimeout <= 0 {
		cfg.Queue.AttemptTimeout = 15
	}
	if cfg.Reconcile.IntervalMin < 0 {
		cfg.Reconcile.IntervalMin = 0
	} else if cfg.Reconcile.IntervalMin == 0 {
		cfg.Reconcile.IntervalMin = 10
	}
	if cfg.Reconcile.GraceMin <= 0 {
		cfg.Reconcile.GraceMin = 5
	}
	if cfg.Delivery.Channel == "" {
		cfg.Delivery.Channel = "log"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// RetryDelay returns the base backoff as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Queue.RetryDelaySec) * time.Second
}

// AttemptTimeout returns the per-attempt delivery timeout as a duration.
func (c *Config) AttemptTimeout() time.Duration {
	return time.Duration(c.Queue.AttemptTimeout) * time.Second
}
