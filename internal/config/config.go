package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
)

// Config holds every runtime setting of the console API.
type Config struct {
	Env          string `env:"APP_ENV" env-default:"production"`
	HTTPAddr     string `env:"HTTP_ADDR" env-default:":9091"`
	CORSOrigin   string `env:"CORS_ALLOW_ORIGIN" env-default:"*"`
	AllowedEmail string `env:"ALLOWED_EMAIL" env-required:"true"`

	Firebase FirebaseConfig
	Postgres PostgresConfig
	Redis    RedisConfig

	DocumentBackend string `env:"DOCUMENT_BACKEND" env-default:"firestore"`

	SessionTTL         time.Duration `env:"SESSION_TTL" env-default:"24h"`
	ListCacheTTL       time.Duration `env:"LIST_CACHE_TTL" env-default:"5m"`
	DraftTTL           time.Duration `env:"DRAFT_TTL" env-default:"2h"`
	DraftSweepSchedule string        `env:"DRAFT_SWEEP_SCHEDULE" env-default:"*/15 * * * *"`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" env-default:"10485760"`
}

type FirebaseConfig struct {
	ProjectID          string `env:"FIREBASE_PROJECT_ID"`
	ServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	// APIKey is the web API key used for email/password sign-in.
	APIKey        string `env:"FIREBASE_API_KEY" env-required:"true"`
	StorageBucket string `env:"FIREBASE_STORAGE_BUCKET" env-required:"true"`
}

type PostgresConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRES_PORT" env-default:"5432"`
	User     string `env:"POSTGRES_USER" env-default:"postgres"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB" env-default:"clubconsole"`
	SSLMode  string `env:"POSTGRES_SSLMODE" env-default:"disable"`
	MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the parts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DBName, p.SSLMode)
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost"`
	Port     string `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"10"`

	Timeout time.Duration `env:"REDIS_TIMEOUT" env-default:"10s"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DocumentBackend {
	case BackendFirestore, BackendPostgres:
	default:
		return fmt.Errorf("unsupported DOCUMENT_BACKEND %q", c.DocumentBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsLocal reports whether the service runs in a developer environment.
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}
