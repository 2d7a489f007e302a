// Package config loads process configuration from FOODLINK_* environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string      `mapstructure:"addr"`
	Environment string      `mapstructure:"environment"`
	LogLevel    string      `mapstructure:"log_level"`
	Store       StoreConfig `mapstructure:"store"`
	Database    Database    `mapstructure:"database"`
	Mongo       MongoConfig `mapstructure:"mongo"`
	Redis       RedisConfig `mapstructure:"redis"`
	Kafka       KafkaConfig `mapstructure:"kafka"`
	JWT         JWTConfig   `mapstructure:"jwt"`
	HTTP        HTTPConfig  `mapstructure:"http"`
	Seed        SeedConfig  `mapstructure:"seed"`
	Matching    Matching    `mapstructure:"matching"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type Database struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// RedisConfig is optional; an empty URL disables the redis-backed pair guard.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DedupeTTL    time.Duration `mapstructure:"dedupe_ttl"`
}

// KafkaConfig is optional; empty brokers fall back to the noop event publisher.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

type JWTConfig struct {
	SigningKey string `mapstructure:"signing_key"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type SeedConfig struct {
	Demo bool `mapstructure:"demo"`
}

// Matching toggles in-process pair dedupe. A configured redis always dedupes.
type Matching struct {
	Dedupe bool `mapstructure:"dedupe"`
}

const devSigningKey = "dev-secret-key-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("environment", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "foodlink")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.dedupe_ttl", 24*time.Hour)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "foodlink.events")
	v.SetDefault("jwt.signing_key", devSigningKey)
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("seed.demo", false)
	v.SetDefault("matching.dedupe", false)
}

// Load reads FOODLINK_* environment variables, layered over the YAML file
// named by FOODLINK_CONFIG when set.
func Load() (Server, error) {
	return load(os.Getenv("FOODLINK_CONFIG"))
}

func load(path string) (Server, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FOODLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *os.PathError
			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return Server{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return fmt.Errorf("store.driver %q requires database.url", c.Store.Driver)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("store.driver %q requires mongo.uri", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	if c.Environment == "prod" && c.JWT.SigningKey == devSigningKey {
		return errors.New("jwt.signing_key must be set in prod")
	}
	return nil
}
