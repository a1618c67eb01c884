package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
)

// Config is shared by every IronXpress binary. Each one reads the keys it
// needs; values come from the environment, optionally seeded by the file
// named in CONFIG_FILE.
type Config struct {
	ServiceName string `mapstructure:"SERVICE_NAME"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBName     string `mapstructure:"DB_NAME"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	KafkaBroker  string        `mapstructure:"KAFKA_BROKER"`
	OrdersTopic  string        `mapstructure:"ORDERS_TOPIC"`
	NotifyGroup  string        `mapstructure:"NOTIFY_GROUP"`
	DeliveryFee  float64       `mapstructure:"DELIVERY_FEE"`
	CheckoutTTL  time.Duration `mapstructure:"CHECKOUT_TTL"`
	SSEHeartbeat time.Duration `mapstructure:"SSE_HEARTBEAT"`

	AuthURL        string        `mapstructure:"AUTH_URL"`
	AuthAPIKey     string        `mapstructure:"AUTH_API_KEY"`
	AuthTimeout    time.Duration `mapstructure:"AUTH_TIMEOUT"`
	StorefrontURL  string        `mapstructure:"STOREFRONT_URL"`
	ReceiptBaseURL string        `mapstructure:"RECEIPT_BASE_URL"`
}

var defaults = map[string]any{
	"SERVICE_NAME":     "ironxpress",
	"HTTP_ADDR":        ":8080",
	"LOG_LEVEL":        "info",
	"DB_HOST":          "localhost",
	"DB_PORT":          "5432",
	"DB_NAME":          "ironxpress",
	"DB_USER":          "postgres",
	"DB_PASSWORD":      "",
	"DB_SSLMODE":       "disable",
	"REDIS_HOST":       "localhost",
	"REDIS_PORT":       "6379",
	"REDIS_PASSWORD":   "",
	"KAFKA_BROKER":     "localhost:9092",
	"ORDERS_TOPIC":     "orders",
	"NOTIFY_GROUP":     "notify-svc",
	"DELIVERY_FEE":     30.0,
	"CHECKOUT_TTL":     "30m",
	"SSE_HEARTBEAT":    "25s",
	"AUTH_URL":         "",
	"AUTH_API_KEY":     "",
	"AUTH_TIMEOUT":     "5s",
	"STOREFRONT_URL":   "http://localhost:8081",
	"RECEIPT_BASE_URL": "http://localhost:3000",
}

// Load reads the configuration. Every key has a default so that
// AutomaticEnv can override it.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DeliveryFee < 0 {
		return nil, errors.New("DELIVERY_FEE must not be negative")
	}
	cfg.AuthURL = strings.TrimRight(cfg.AuthURL, "/")
	cfg.StorefrontURL = strings.TrimRight(cfg.StorefrontURL, "/")
	cfg.ReceiptBaseURL = strings.TrimRight(cfg.ReceiptBaseURL, "/")
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	return cfg
}

// NewLogger builds the process logger. An unknown level falls back to info.
func NewLogger(cfg *Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger()
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=" + c.DBSSLMode
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func MustInitPostgres(cfg *Config) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err = db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	return client
}

func NewKafkaReader(cfg *Config, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(cfg *Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
