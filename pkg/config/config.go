package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissing is returned by the Validate helpers when a required variable is empty.
var ErrMissing = errors.New("required configuration missing")

// Config captures the full runtime configuration for the pipeline.
type Config struct {
	App          AppConfig
	MediaConvert MediaConvertConfig
	Backend      BackendConfig
	HTTP         HTTPConfig
	Kafka        KafkaConfig
	Storage      StorageConfig
	Tracing      TracingConfig
}

type AppConfig struct {
	Name        string `env:"APP_NAME" envDefault:"hlsflow"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"APP_LOG_LEVEL" envDefault:"info"`
}

type MediaConvertConfig struct {
	Region   string `env:"AWS_REGION" envDefault:"ap-southeast-2"`
	RoleARN  string `env:"MEDIACONVERT_ROLE_ARN"`
	Endpoint string `env:"MEDIACONVERT_ENDPOINT"`
}

type BackendConfig struct {
	URL          string `env:"BACKEND_URL"`
	Secret       string `env:"LAMBDA_SECRET"`
	PlaylistName string `env:"PLAYLIST_NAME" envDefault:"index.m3u8"`
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"0s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
}

type KafkaConfig struct {
	Brokers         []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	GroupID         string   `env:"KAFKA_GROUP_ID" envDefault:"hlsflow"`
	UploadTopic     string   `env:"KAFKA_UPLOAD_TOPIC"`
	CompletionTopic string   `env:"KAFKA_COMPLETION_TOPIC"`
}

type StorageConfig struct {
	Endpoint  string `env:"STORAGE_ENDPOINT"`
	Region    string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	Bucket    string `env:"STORAGE_BUCKET"`
	AccessKey string `env:"STORAGE_ACCESS_KEY"`
	SecretKey string `env:"STORAGE_SECRET_KEY"`
	UseSSL    bool   `env:"STORAGE_USE_SSL" envDefault:"false"`
}

type TracingConfig struct {
	Endpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure     bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	SampleRatio  float64 `env:"OTEL_TRACES_SAMPLER_RATIO" envDefault:"1.0"`
	ResourceAttr string  `env:"OTEL_RESOURCE_ATTRIBUTES" envDefault:"service.namespace=hlsflow"`
}

// Load parses environment variables into Config. A .env file in the working
// directory is applied first when present; real environment values win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateUpload checks the variables the upload entry point depends on.
func (c *Config) ValidateUpload() error {
	return requireAll(map[string]string{
		"AWS_REGION":            c.MediaConvert.Region,
		"MEDIACONVERT_ROLE_ARN": c.MediaConvert.RoleARN,
	})
}

// ValidateCompletion checks the variables the completion entry point depends on.
func (c *Config) ValidateCompletion() error {
	return requireAll(map[string]string{
		"BACKEND_URL":   c.Backend.URL,
		"LAMBDA_SECRET": c.Backend.Secret,
		"PLAYLIST_NAME": c.Backend.PlaylistName,
	})
}

// StorageEnabled reports whether a bucket notification listener should run.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.Bucket != ""
}

func requireAll(vars map[string]string) error {
	var missing []string
	for name, value := range vars {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
}
