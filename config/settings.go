package config

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Settings is the typed view of the config map that the rest of the app is
// wired from.
type Settings struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	AcceptedOrigins  []string
	AllowCredentials bool

	DatabaseDSN     string
	ReplicaDSNs     []string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBSlowThreshold time.Duration
	DBLogLevel      string

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ViewDedupeTTL time.Duration

	RabbitMQURL      string
	RabbitMQExchange string

	ElasticURLs []string

	AWSRegion       string
	S3Bucket        string
	PresignDuration time.Duration
	MaxVideoSizeMB  int
	MaxImageSizeMB  int

	OutboxInterval    time.Duration
	OutboxBatchSize   int
	OutboxMaxAttempts int
}

// NewSettings reads every setting from c, falling back to defaults.
func NewSettings(c map[string]string) Settings {
	return Settings{
		Port:             GetString(c, "PORT", "8080"),
		ReadTimeout:      time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
		WriteTimeout:     time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
		IdleTimeout:      time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
		ShutdownTimeout:  time.Duration(GetInt(c, "SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second,
		AcceptedOrigins:  GetStrings(c, "ACCEPTED_ORIGINS", []string{"http://localhost:3000"}),
		AllowCredentials: GetBool(c, "CORS_ALLOW_CREDENTIALS", true),

		DatabaseDSN:     databaseDSN(c),
		ReplicaDSNs:     GetStrings(c, "DB_REPLICA_DSNS", nil),
		DBMaxOpenConns:  GetInt(c, "DB_POOL_SIZE", 20),
		DBMaxIdleConns:  GetInt(c, "DB_MAX_IDLE_CONNS", 10),
		DBSlowThreshold: time.Duration(GetInt(c, "DB_SLOW_THRESHOLD_MS", 2000)) * time.Millisecond,
		DBLogLevel:      GetString(c, "DB_LOG_LEVEL", "warn"),

		JWTSecret: GetString(c, "JWT_SECRET", ""),

		RedisAddr:     GetString(c, "REDIS_ADDR", ""),
		RedisPassword: GetString(c, "REDIS_PASSWORD", ""),
		RedisDB:       GetInt(c, "REDIS_DB", 0),
		ViewDedupeTTL: time.Duration(GetInt(c, "REDIS_TTL", 3600)) * time.Second,

		RabbitMQURL:      GetString(c, "RABBITMQ_URL", ""),
		RabbitMQExchange: GetString(c, "RABBITMQ_EXCHANGE", "marketplace.events"),

		ElasticURLs: GetStrings(c, "ELASTIC_URL", nil),

		AWSRegion:       GetString(c, "AWS_REGION", "us-east-1"),
		S3Bucket:        GetString(c, "S3_BUCKET", ""),
		PresignDuration: time.Duration(GetInt(c, "S3_PRESIGN_MINUTES", 15)) * time.Minute,
		MaxVideoSizeMB:  GetInt(c, "MAX_VIDEO_SIZE_MB", 500),
		MaxImageSizeMB:  GetInt(c, "MAX_IMAGE_SIZE_MB", 10),

		OutboxInterval:    time.Duration(GetInt(c, "OUTBOX_INTERVAL_MS", 1000)) * time.Millisecond,
		OutboxBatchSize:   GetInt(c, "OUTBOX_BATCH_SIZE", 200),
		OutboxMaxAttempts: GetInt(c, "OUTBOX_MAX_ATTEMPTS", 5),
	}
}

// databaseDSN prefers DATABASE_URL and otherwise assembles a DSN from the
// individual DB_* keys.
func databaseDSN(c map[string]string) string {
	if dsn := GetString(c, "DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		GetString(c, "DB_HOST", "localhost"),
		GetString(c, "DB_USER", "postgres"),
		GetString(c, "DB_PASSWORD", ""),
		GetString(c, "DB_NAME", "reelbyte"),
		GetString(c, "DB_PORT", "5432"),
		GetString(c, "DB_SSLMODE", "disable"),
	)
}

// Load layers the optional YAML file (CONFIG_FILE), then Parameter Store
// (SSM_PARAMETER_PATH), then the process environment, which always wins.
func Load(ctx context.Context) (map[string]string, error) {
	env := New()
	layers := []map[string]string{}

	if path := GetString(env, "CONFIG_FILE", ""); path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Int("keys", len(fromFile)).Msg("loaded config file")
		layers = append(layers, fromFile)
	}

	if prefix := GetString(env, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := NewSSMClient(ctx, GetString(env, "AWS_REGION", ""))
		if err != nil {
			return nil, err
		}
		params, err := LoadParameters(ctx, client, prefix)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", prefix).Int("keys", len(params)).Msg("loaded parameters from ssm")
		layers = append(layers, params)
	}

	layers = append(layers, env)
	return Merge(layers...), nil
}
