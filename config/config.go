// Package config carrega a configuração do servidor.
//
// Ordem: valores padrão -> arquivo YAML opcional (CONFIG_FILE) -> variáveis de
// ambiente -> Validate. Um .env no diretório atual é carregado antes, sem
// sobrescrever variáveis já definidas.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Log     LogConfig     `yaml:"log"`
	Usage   UsageConfig   `yaml:"usage"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type UsageConfig struct {
	// MaxInFlight limita quantos incrementos podem estar rodando ao mesmo tempo;
	// acima disso eles são descartados (nunca bloqueiam a requisição).
	MaxInFlight int        `yaml:"max_inflight"`
	Sink        SinkConfig `yaml:"sink"`
}

type SinkConfig struct {
	RedisEnabled  bool          `yaml:"redis_enabled"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	Prefix        string        `yaml:"prefix"`
	TTL           time.Duration `yaml:"ttl"`
	Bucket        string        `yaml:"bucket"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Usage: UsageConfig{
			MaxInFlight: 1024,
			Sink: SinkConfig{
				Prefix: "tempconv:usage",
				TTL:    24 * time.Hour,
				Bucket: "minute",
			},
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load monta a configuração a partir do ambiente do processo.
func Load() (Config, error) {
	// .env é opcional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := cfg.mergeYAML(data); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var envRef = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnv expande ${VAR} e ${VAR:-padrão}.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		parts := envRef.FindStringSubmatch(match)
		if v := os.Getenv(parts[1]); v != "" {
			return v
		}
		return parts[2]
	})
}

// mergeYAML sobrepõe os campos presentes no YAML aos valores atuais.
func (c *Config) mergeYAML(data []byte) error {
	if err := yaml.Unmarshal([]byte(expandEnv(string(data))), c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = getenvDefault("LISTEN_ADDR", c.ListenAddr)
	c.ShutdownTimeout = getenvDurationDefault("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenvDefault("LOG_FORMAT", c.Log.Format)
	c.Log.Output = getenvDefault("LOG_OUTPUT", c.Log.Output)

	c.Usage.MaxInFlight = getenvIntDefault("USAGE_MAX_INFLIGHT", c.Usage.MaxInFlight)
	c.Metrics.Enabled = getenvBoolDefault("METRICS_ENABLED", c.Metrics.Enabled)

	s := &c.Usage.Sink
	s.RedisEnabled = getenvBoolDefault("USAGE_SINK_REDIS_ENABLED", s.RedisEnabled)
	s.RedisAddr = getenvDefault("USAGE_SINK_REDIS_ADDR", s.RedisAddr)
	s.RedisPassword = getenvDefault("USAGE_SINK_REDIS_PASSWORD", s.RedisPassword)
	s.RedisDB = getenvIntDefault("USAGE_SINK_REDIS_DB", s.RedisDB)
	s.Prefix = getenvDefault("USAGE_SINK_PREFIX", s.Prefix)
	s.TTL = getenvDurationDefault("USAGE_SINK_TTL", s.TTL)
	s.Bucket = getenvDefault("USAGE_SINK_BUCKET", s.Bucket)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	if c.Usage.MaxInFlight <= 0 {
		return errors.New("USAGE_MAX_INFLIGHT must be > 0")
	}
	if c.ShutdownTimeout < 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be >= 0")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}

	s := c.Usage.Sink
	if s.RedisEnabled && strings.TrimSpace(s.RedisAddr) == "" {
		return errors.New("USAGE_SINK_REDIS_ADDR is required when USAGE_SINK_REDIS_ENABLED=true")
	}
	switch strings.ToLower(strings.TrimSpace(s.Bucket)) {
	case "minute", "none":
	default:
		return fmt.Errorf("USAGE_SINK_BUCKET must be minute or none, got %q", s.Bucket)
	}
	return nil
}
