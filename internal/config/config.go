package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   UploadConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint      string `envconfig:"MINIO_ENDPOINT" required:"true"`
	PrivateBucket string `envconfig:"MINIO_PRIVATE_BUCKET" default:"photo-private"`
	PublicBucket  string `envconfig:"MINIO_PUBLIC_BUCKET" default:"photo-public"`
	AccessKey     string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey     string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	Region        string `envconfig:"MINIO_REGION" default:""`
	UseSSL        bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	MaxPhotosPerGroup int    `envconfig:"UPLOAD_MAX_PHOTOS_PER_GROUP" default:"20"`
	MaxPhotoSizeBytes int64  `envconfig:"UPLOAD_MAX_PHOTO_SIZE" default:"26214400"` // 25MB
	Workers           int    `envconfig:"UPLOAD_WORKERS" default:"0"`               // 0 means GOMAXPROCS
	CacheDir          string `envconfig:"UPLOAD_CACHE_DIR" default:""`              // empty disables the read cache
}

// NATSConfig configures the event publisher. An empty URL disables event
// publishing entirely.
type NATSConfig struct {
	URL        string `envconfig:"NATS_URL" default:""`
	StreamName string `envconfig:"NATS_STREAM_NAME" default:"PHOTODROP"`
	Subject    string `envconfig:"NATS_SUBJECT" default:"photo_group.created"`
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

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
