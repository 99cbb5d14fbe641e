package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"HOTSEAT_LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Redis     Redis     `yaml:"redis"`
	Telemetry Telemetry `yaml:"telemetry"`
	Session   Session   `yaml:"session"`
	Handle    Handle    `yaml:"handle"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HOTSEAT_HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HOTSEAT_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"HOTSEAT_REDIS_ENABLED" env-default:"false"`
	Addr    string `yaml:"addr" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"HOTSEAT_OTEL_ENABLED" env-default:"false"`
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4317"`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"hotseat"`
	Stdout      bool   `yaml:"stdout" env:"HOTSEAT_OTEL_STDOUT" env-default:"false"`
}

type Session struct {
	IdleTimeout       time.Duration `yaml:"idle-timeout" env:"HOTSEAT_SESSION_IDLE_TIMEOUT" env-default:"30m"`
	HeartbeatInterval time.Duration `yaml:"heartbeat-interval" env:"HOTSEAT_SESSION_HEARTBEAT" env-default:"10s"`
	InboxSize         int           `yaml:"inbox-size" env:"HOTSEAT_SESSION_INBOX" env-default:"16"`
}

type Handle struct {
	Secret string        `yaml:"secret" env:"HOTSEAT_HANDLE_SECRET" env-default:"change-me"`
	TTL    time.Duration `yaml:"ttl" env:"HOTSEAT_HANDLE_TTL" env-default:"24h"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads the YAML file at path and overlays environment variables.
// A missing file is not an error; defaults and the environment are used.
func Load(path string) (*Config, error) {
	conf := &Config{}

	fromFile, err := fileExists(path)
	if err != nil {
		return nil, err
	}
	if fromFile {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	switch {
	case c.Session.IdleTimeout <= 0:
		return fmt.Errorf("%w: session idle-timeout must be positive", ErrInvalidConfig)
	case c.Session.HeartbeatInterval <= 0:
		return fmt.Errorf("%w: session heartbeat-interval must be positive", ErrInvalidConfig)
	case c.Session.InboxSize <= 0:
		return fmt.Errorf("%w: session inbox-size must be positive", ErrInvalidConfig)
	case c.Handle.Secret == "":
		return fmt.Errorf("%w: handle secret is empty", ErrInvalidConfig)
	case c.Redis.Enabled && c.Redis.Addr == "":
		return fmt.Errorf("%w: redis enabled without addr", ErrInvalidConfig)
	}
	return nil
}

func fileExists(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("unable to stat config file: %w", err)
	}
}
