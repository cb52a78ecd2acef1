package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/kelydev/apiGrants/config"
	"go.uber.org/zap"

	// postgres driver
	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// InitDB opens the pool against the hosted Postgres and checks it answers.
func InitDB(cfg config.DBConfig, log *zap.Logger) (*sql.DB, error) {
	log.Info("initializing postgresql database connection",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
	)

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("PostgreSQL database connection established")
	return db, nil
}

// EnsureSchema applies the embedded schema. Every statement is idempotent,
// so running it against an already provisioned database is a no-op.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
