package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/ordering/internal/constants"
)

type Application struct {
	Env         string        `mapstructure:"env"          json:"env"`
	Host        string        `mapstructure:"host"         json:"host"`
	SecretKey   string        `mapstructure:"secret_key"   json:"-"`
	CorsOrigins []string      `mapstructure:"cors_origins" json:"cors_origins"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"    json:"token_ttl"`
	Port        int           `mapstructure:"port"         json:"port"`
}

type Database struct {
	Name           string `mapstructure:"name"            json:"name"`
	Host           string `mapstructure:"host"            json:"host"`
	MigrationPath  string `mapstructure:"migration_path"  json:"migration_path"`
	Password       string `mapstructure:"password"        json:"-"`
	TimeZone       string `mapstructure:"timezone"        json:"timezone"`
	Username       string `mapstructure:"username"        json:"username"`
	MaxConnections int32  `mapstructure:"max_connections" json:"max_connections"`
	MinConnections int32  `mapstructure:"min_connections" json:"min_connections"`
	Port           uint16 `mapstructure:"port"            json:"port"`
}

func (d Database) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable&timezone=%s",
		d.Username,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.TimeZone,
	)
}

type Cache struct {
	Host     string        `mapstructure:"host"     json:"host"`
	Password string        `mapstructure:"password" json:"-"`
	TTL      time.Duration `mapstructure:"ttl"      json:"ttl"`
	Database int           `mapstructure:"database" json:"database"`
	Port     uint16        `mapstructure:"port"     json:"port"`
}

type Otel struct {
	Host    string `mapstructure:"host"    json:"host"`
	Port    int    `mapstructure:"port"    json:"port"`
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
}

func (o Otel) Endpoint() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

type Event struct {
	Broker       string   `mapstructure:"broker"        json:"broker"`
	KafkaBrokers []string `mapstructure:"kafka_brokers" json:"kafka_brokers"`
	GroupID      string   `mapstructure:"group_id"      json:"group_id"`
}

type Client struct {
	BaseURL     string        `mapstructure:"base_url"     json:"base_url"`
	SessionFile string        `mapstructure:"session_file" json:"session_file"`
	Timeout     time.Duration `mapstructure:"timeout"      json:"timeout"`
}

type Config struct {
	Application `mapstructure:"application" json:"application"`
	Database    `mapstructure:"db"          json:"db"`
	Cache       `mapstructure:"cache"       json:"cache"`
	Otel        `mapstructure:"otel"        json:"otel"`
	Event       `mapstructure:"event"       json:"event"`
	Client      `mapstructure:"client"      json:"client"`
}

var (
	once   sync.Once
	config *Config
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.env", "development")
	v.SetDefault("application.host", "0.0.0.0")
	v.SetDefault("application.port", 3000)
	v.SetDefault("application.secret_key", "change-me")
	v.SetDefault("application.token_ttl", 24*time.Hour)
	v.SetDefault("application.cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.name", "ordering")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.username", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.migration_path", "file://migrations")
	v.SetDefault("db.max_connections", 10)
	v.SetDefault("db.min_connections", 2)

	v.SetDefault("cache.host", "localhost")
	v.SetDefault("cache.port", 6379)
	v.SetDefault("cache.database", 0)
	v.SetDefault("cache.ttl", 10*time.Minute)

	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.host", "otel-collector")
	v.SetDefault("otel.port", 4317)

	v.SetDefault("event.broker", "redis")
	v.SetDefault("event.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("event.group_id", "ordering-notification")

	v.SetDefault("client.base_url", "http://localhost:3000/api")
	v.SetDefault("client.timeout", 15*time.Second)
	v.SetDefault("client.session_file", "")
}

// Load reads env/<filename>.yaml from the given paths, falling back to defaults and
// ORDERING_* environment variables when the file does not exist.
func Load(filename string, paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./env"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("ordering")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		notFound := viper.ConfigFileNotFoundError{}
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed reading config with error=%w", err)
		}
	}

	cfg := Config{}
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed unmarshaling config with error=%w", err)
	}
	return &cfg, nil
}

func Get(c context.Context, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(constants.KEY_TAG, "main Get").
			Str(constants.KEY_PROCESS, "init config").
			Str("filename", filename).
			Logger()

		logger.Info().Msg("reading config")
		cfg, err := Load(filename)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
		logger.Info().Any(constants.KEY_CONFIG, cfg).Msg("read config")
	})
	return config
}
