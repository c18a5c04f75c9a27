// Package config resolves the settings shared by the command line tool,
// the API server and the worker. Values are layered: built-in defaults,
// then an optional YAML file, then the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/cltl/micro-portraits/internal/util"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvConfigPath names the YAML file when no path is given explicitly.
const EnvConfigPath = "MP_CONFIG"

type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Database   DatabaseConfig   `yaml:"database"`
	S3         S3Config         `yaml:"s3"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

type ExtractionConfig struct {
	Surface  bool   `yaml:"surface"`
	NoCoref  bool   `yaml:"nocoref"`
	Workers  int    `yaml:"workers"`
	Language string `yaml:"language"`
	// RoleBase selects how roles are derived; only "dep" is implemented.
	RoleBase string `yaml:"role_base"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`

	// PublicEndpoint is the address clients use to download presigned
	// objects, when it differs from Endpoint.
	PublicEndpoint string `yaml:"public_endpoint"`
}

type RabbitMQConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

// URL returns the AMQP connection URL.
func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", r.User, r.Password, r.Host, r.Port)
}

type ServerConfig struct {
	Port         string `yaml:"port"`
	MasterAPIKey string `yaml:"master_api_key"`
	AuthURL      string `yaml:"auth_url"`
	MetricsPort  string `yaml:"metrics_port"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
	// File receives a logfmt copy of every message when set.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Extraction: ExtractionConfig{
			Workers:  1,
			Language: "nl",
			RoleBase: "dep",
		},
		S3: S3Config{
			Bucket: "microportraits",
			Region: "us-east-1",
		},
		RabbitMQ: RabbitMQConfig{
			User:     "guest",
			Password: "guest",
			Host:     "localhost",
			Port:     "5672",
		},
		Server: ServerConfig{
			Port:        "8080",
			MetricsPort: "9090",
		},
	}
}

// Load resolves the configuration. An empty path falls back to the file
// named by MP_CONFIG; without either only defaults and environment apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = util.GetEnv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	e := &c.Extraction
	e.Surface = util.GetEnvBool("MP_SURFACE", e.Surface)
	e.NoCoref = util.GetEnvBool("MP_NOCOREF", e.NoCoref)
	e.Workers = util.GetEnvInt("MP_WORKERS", e.Workers)
	e.Language = util.GetEnvString("MP_LANGUAGE", e.Language)
	e.RoleBase = util.GetEnvString("MP_ROLE_BASE", e.RoleBase)

	c.Database.URL = util.GetEnvString("DATABASE_URL", c.Database.URL)

	s := &c.S3
	s.Bucket = util.GetEnvString("AWS_BUCKET", s.Bucket)
	s.Endpoint = util.GetEnvString("AWS_ENDPOINT", s.Endpoint)
	s.Region = util.GetEnvString("AWS_REGION", s.Region)
	s.AccessKey = util.GetEnvString("AWS_ACCESS_KEY", s.AccessKey)
	s.SecretKey = util.GetEnvString("AWS_SECRET_KEY", s.SecretKey)
	s.PublicEndpoint = util.GetEnvString("AWS_PUBLIC_ENDPOINT", s.PublicEndpoint)

	r := &c.RabbitMQ
	r.User = util.GetEnvString("RABBITMQ_USER", r.User)
	r.Password = util.GetEnvString("RABBITMQ_PASSWORD", r.Password)
	r.Host = util.GetEnvString("RABBITMQ_HOST", r.Host)
	r.Port = util.GetEnvString("RABBITMQ_PORT", r.Port)

	c.Server.Port = util.GetEnvString("PORT", c.Server.Port)
	c.Server.MasterAPIKey = util.GetEnvString("MASTER_API_KEY", c.Server.MasterAPIKey)
	c.Server.AuthURL = util.GetEnvString("AUTH_URL", c.Server.AuthURL)
	c.Server.MetricsPort = util.GetEnvString("METRICS_PORT", c.Server.MetricsPort)

	c.Log.Debug = util.GetEnvBool("DEBUG", c.Log.Debug)
	c.Log.File = util.GetEnvString("MP_LOG_FILE", c.Log.File)
}

// Validate checks the settings every entry point depends on. Service
// specific settings such as the database URL are checked where they are
// used.
func (c Config) Validate() error {
	var errs []error
	if c.Extraction.Workers < 1 {
		errs = append(errs, fmt.Errorf("extraction.workers must be at least 1, got %d", c.Extraction.Workers))
	}
	if strings.ToLower(c.Extraction.RoleBase) != "dep" {
		errs = append(errs, fmt.Errorf("extraction.role_base %q is not supported", c.Extraction.RoleBase))
	}
	if strings.TrimSpace(c.Extraction.Language) == "" {
		errs = append(errs, errors.New("extraction.language must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Require reports an ErrInvalid error for every empty value. Keys are the
// setting names used in messages.
func Require(values map[string]string) error {
	var missing []string
	for key, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
}
