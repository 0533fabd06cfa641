package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"assessment-platform"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Assessment Assessment
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// DSN renders the keyword/value connection string accepted by both pgx
// and the database/sql pgx driver.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Redis holds item cache configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Assessment groups grading-service defaults.
type Assessment struct {
	ItemCacheTTL        time.Duration `env:"ITEM_CACHE_TTL" envDefault:"5m"`
	AttemptQueueSize    int           `env:"ATTEMPT_QUEUE_SIZE" envDefault:"256"`
	AttemptWriteTimeout time.Duration `env:"ATTEMPT_WRITE_TIMEOUT" envDefault:"5s"`
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadPostgres parses only the database settings, for tools such as the
// migrator that connect without the rest of the service config.
func LoadPostgres() (*Postgres, error) {
	pg := &Postgres{}
	if err := env.ParseWithOptions(pg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	return pg, nil
}
