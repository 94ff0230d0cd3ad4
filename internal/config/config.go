package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values come from config.yaml and can be overridden by environment
// variables (server.address -> SERVER_ADDRESS).
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	App        AppConfig        `mapstructure:"app"`
	Membership MembershipConfig `mapstructure:"membership"`
	Payment    PaymentConfig    `mapstructure:"payment"`
	Chat       ChatConfig       `mapstructure:"chat"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address              string        `mapstructure:"address"`
	Mode                 string        `mapstructure:"mode"` // gin mode: debug, release or test
	ReadTimeout          time.Duration `mapstructure:"read_timeout"`
	IdleTimeout          time.Duration `mapstructure:"idle_timeout"`
	LoginRateLimitPerMin int           `mapstructure:"login_rate_limit_per_min"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	ExportURLExpiry time.Duration `mapstructure:"export_url_expiry"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	JSON   bool   `mapstructure:"json"`
	File   string `mapstructure:"file"`
	Stdout bool   `mapstructure:"stdout"`
}

// AppConfig carries application wide settings. Timezone decides what
// "today" means for streaks, completions and session dates.
type AppConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type MembershipConfig struct {
	CacheTTL time.Duration           `mapstructure:"cache_ttl"`
	Plans    []domain.MembershipPlan `mapstructure:"plans"`
}

type PaymentConfig struct {
	KeySecret string `mapstructure:"key_secret"`
}

type ChatConfig struct {
	DailyPromptLimit int `mapstructure:"daily_prompt_limit"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

var defaultPlans = []map[string]interface{}{
	{"id": "monthly", "name": "Monthly Premium", "months": 1, "days": 0, "amount_minor": 39900, "currency": "INR"},
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	// jwt.expiration -> JWT_EXPIRATION
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.login_rate_limit_per_min", 10)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitpal")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.export_url_expiry", "15m")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "fitpal-exports")
	// keys without a default are invisible to AutomaticEnv during Unmarshal
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("redis.password", "")
	v.SetDefault("payment.key_secret", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("membership.cache_ttl", "5m")
	v.SetDefault("membership.plans", defaultPlans)
	v.SetDefault("chat.daily_prompt_limit", 2)
	v.SetDefault("metrics.namespace", "fitpal")
	v.SetDefault("metrics.subsystem", "api")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// no file, defaults and env only
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, config.Validate()
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.Chat.DailyPromptLimit < 0 {
		return errors.New("chat.daily_prompt_limit must not be negative")
	}
	for _, p := range c.Membership.Plans {
		if p.ID == "" || (p.Months <= 0 && p.Days <= 0) {
			return fmt.Errorf("membership plan %q needs an id and a positive duration", p.ID)
		}
		if p.AmountMinor <= 0 {
			return fmt.Errorf("membership plan %q needs a positive amount_minor", p.ID)
		}
	}
	return nil
}
