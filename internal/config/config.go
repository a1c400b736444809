package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Server   ServerConfig
	Database DatabaseConfig
	Minio    MinioConfig
	NATS     NATSConfig
	Redis    RedisConfig
	Upload   UploadConfig
	Download DownloadConfig
	Outbox   OutboxConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

type MinioConfig struct {
	Endpoint                string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName              string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey               string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey               string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	SimplePresignedDuration time.Duration `envconfig:"MINIO_SIMPLE_PRESIGNED_DURATION" default:"15m"`
	PartPresignedDuration   time.Duration `envconfig:"MINIO_PART_PRESIGNED_DURATION" default:"1h"`
	UseSSL                  bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL" required:"true"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" default:"DOWNLOADS"`
	Subject      string `envconfig:"NATS_SUBJECT" default:"downloads.dispatch"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" default:"download-worker"`
	DeliverGroup string `envconfig:"NATS_DELIVER_GROUP" default:"download-workers"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" required:"true"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type UploadConfig struct {
	SingleUploadMaxSize    int64         `envconfig:"UPLOAD_SINGLE_MAX_SIZE" default:"10485760"`      // 10MB
	MultipartUploadMaxSize int64         `envconfig:"UPLOAD_MULTIPART_MAX_SIZE" default:"5368709120"` // 5GB
	DefaultPartSize        int64         `envconfig:"UPLOAD_DEFAULT_PART_SIZE" default:"10485760"`    // 10MB
	SingleSessionTTL       time.Duration `envconfig:"UPLOAD_SINGLE_SESSION_TTL" default:"15m"`
	MultipartSessionTTL    time.Duration `envconfig:"UPLOAD_MULTIPART_SESSION_TTL" default:"24h"`
	SweepEvery             time.Duration `envconfig:"UPLOAD_SWEEP_EVERY" default:"5m"`
	SweepBatchSize         int           `envconfig:"UPLOAD_SWEEP_BATCH_SIZE" default:"100"`
	SweepLockLease         time.Duration `envconfig:"UPLOAD_SWEEP_LOCK_LEASE" default:"2m"`
}

type DownloadConfig struct {
	MaxRetries        int           `envconfig:"DOWNLOAD_MAX_RETRIES" default:"3"`
	BackoffBase       time.Duration `envconfig:"DOWNLOAD_BACKOFF_BASE" default:"60s"`
	BackoffMultiplier float64       `envconfig:"DOWNLOAD_BACKOFF_MULTIPLIER" default:"2.0"`
	BackoffCap        time.Duration `envconfig:"DOWNLOAD_BACKOFF_CAP" default:"1h"`
	MaxFileSize       int64         `envconfig:"DOWNLOAD_MAX_FILE_SIZE" default:"5368709120"` // 5GB
	ConnectTimeout    time.Duration `envconfig:"DOWNLOAD_CONNECT_TIMEOUT" default:"10s"`
	OverallTimeout    time.Duration `envconfig:"DOWNLOAD_OVERALL_TIMEOUT" default:"10m"`
	MaxRedirects      int           `envconfig:"DOWNLOAD_MAX_REDIRECTS" default:"5"`
	SessionTTL        time.Duration `envconfig:"DOWNLOAD_SESSION_TTL" default:"24h"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"OUTBOX_BATCH_SIZE" default:"50"`
	DispatchEvery  time.Duration `envconfig:"OUTBOX_DISPATCH_EVERY" default:"5s"`
	ReclaimEvery   time.Duration `envconfig:"OUTBOX_RECLAIM_EVERY" default:"1m"`
	StaleAfter     time.Duration `envconfig:"OUTBOX_STALE_AFTER" default:"5m"`
	MaxRetries     int           `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
	BackoffBase    time.Duration `envconfig:"OUTBOX_BACKOFF_BASE" default:"30s"`
	BackoffCap     time.Duration `envconfig:"OUTBOX_BACKOFF_CAP" default:"30m"`
	WebhookTimeout time.Duration `envconfig:"OUTBOX_WEBHOOK_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
