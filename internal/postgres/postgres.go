package postgres

import (
	"fmt"
	"time"

	"github.com/parceldesk/postal-service/internal/config"
	"github.com/parceldesk/postal-service/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// New opens a pooled connection to Postgres. The initial connect is
// retried with backoff so the service survives the database coming up
// slightly later than the app container.
func New(cfg config.Postgres) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	var db *sqlx.DB
	err := utils.Retry(utils.RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2,
	}, func() error {
		var err error
		db, err = sqlx.Connect("postgres", dsn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}
