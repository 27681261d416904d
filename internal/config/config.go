package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	Providers   []ProviderConfig  `mapstructure:"providers"`
	Routes      map[string]string `mapstructure:"routes"`
	Aliases     map[string]string `mapstructure:"aliases"`
	Jobs        JobsConfig        `mapstructure:"jobs"`
	RequestLog  RequestLogConfig  `mapstructure:"request_log"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
	UpdateCheck UpdateCheckConfig `mapstructure:"update_check"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Env             string        `mapstructure:"env"`
	BasePath        string        `mapstructure:"base_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GatewayConfig tunes the dispatch path.
type GatewayConfig struct {
	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	// PropagateCancel aborts the outbound call when the client goes away.
	PropagateCancel bool   `mapstructure:"propagate_cancel"`
	DefaultProvider string `mapstructure:"default_provider"`
	// CategoryModels overrides the fallback downstream model per category.
	CategoryModels map[string]string `mapstructure:"category_models"`
}

type ProviderConfig struct {
	ID      string            `mapstructure:"id" validate:"required"`
	Type    string            `mapstructure:"type" validate:"required,oneof=openai ollama"`
	Name    string            `mapstructure:"name"`
	BaseURL string            `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string            `mapstructure:"api_key" validate:"required_if=Type openai"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Enabled bool              `mapstructure:"enabled"`
	Config  map[string]string `mapstructure:"config"`
}

type JobsConfig struct {
	Store string      `mapstructure:"store"` // memory, sqlite, postgres, redis
	DSN   string      `mapstructure:"dsn"`
	Redis RedisConfig `mapstructure:"redis"`

	Stripes               int           `mapstructure:"stripes"`
	BatchItemDuration     time.Duration `mapstructure:"batch_item_duration"`
	DefaultItemPriceUSD   float64       `mapstructure:"default_item_price_usd"`
	OutputBaseURL         string        `mapstructure:"output_base_url"`
	TrainingQueueDelay    time.Duration `mapstructure:"training_queue_delay"`
	TrainingEpochDuration time.Duration `mapstructure:"training_epoch_duration"`
	GPUEpochRateUSD       float64       `mapstructure:"gpu_epoch_rate_usd"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// RequestLogConfig wires the outbound request-log sink.
type RequestLogConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	Token         string        `mapstructure:"token"`
	Buffer        int           `mapstructure:"buffer"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	Rate          float64       `mapstructure:"rate"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
	S3            S3Config      `mapstructure:"s3"`
}

type S3Config struct {
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Prefix   string `mapstructure:"prefix"`
	Endpoint string `mapstructure:"endpoint"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type UpdateCheckConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Repository string        `mapstructure:"repository"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// DefaultProvider is used when the config file declares no providers.
var DefaultProvider = ProviderConfig{
	ID:      "vsegpt",
	Type:    "openai",
	Name:    "VseGPT",
	BaseURL: "https://api.vsegpt.ru/v1",
	APIKey:  "ENV:VSEGPT_API_KEY",
	Enabled: true,
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./internal/config")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if len(cfg.Providers) == 0 {
		cfg.Providers = []ProviderConfig{DefaultProvider}
	}

	for i := range cfg.Providers {
		cfg.Providers[i].APIKey = resolveSecret(v, cfg.Providers[i].APIKey)
	}
	cfg.RequestLog.Token = resolveSecret(v, cfg.RequestLog.Token)

	if cfg.Gateway.DefaultProvider == "" {
		cfg.Gateway.DefaultProvider = cfg.Providers[0].ID
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.base_path", "/v1")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("gateway.dispatch_timeout", 60*time.Second)
	v.SetDefault("gateway.propagate_cancel", false)

	v.SetDefault("jobs.store", "memory")
	v.SetDefault("jobs.stripes", 64)
	v.SetDefault("jobs.redis.addr", "localhost:6379")
	v.SetDefault("jobs.redis.prefix", "gateway:")
	v.SetDefault("jobs.batch_item_duration", 2*time.Minute)
	v.SetDefault("jobs.default_item_price_usd", 0.001)
	v.SetDefault("jobs.output_base_url", "https://storage.regraph.tech/batch")
	v.SetDefault("jobs.training_queue_delay", 30*time.Second)
	v.SetDefault("jobs.training_epoch_duration", 20*time.Minute)
	v.SetDefault("jobs.gpu_epoch_rate_usd", 4.50)

	v.SetDefault("request_log.enabled", false)
	v.SetDefault("request_log.buffer", 10000)
	v.SetDefault("request_log.batch_size", 50)
	v.SetDefault("request_log.flush_interval", 5*time.Second)
	v.SetDefault("request_log.rate", 20.0)
	v.SetDefault("request_log.burst", 40)
	v.SetDefault("request_log.timeout", 5*time.Second)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "inference-gateway")

	v.SetDefault("update_check.enabled", false)
	v.SetDefault("update_check.repository", "nulzo/inference-gateway")
	v.SetDefault("update_check.timeout", 2*time.Second)
}

// resolveSecret expands "ENV:NAME" references.
func resolveSecret(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "ENV:") {
		return value
	}
	envVar := strings.TrimPrefix(value, "ENV:")
	// Check process environment first (explicit override)
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return v.GetString(envVar)
}
