package storage

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // Register postgres driver
)

func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	return pgxpool.NewWithConfig(ctx, cfg)
}

// OpenDB opens a database/sql handle (lib/pq) without pinging. Migrations and
// the event sequence repository use it.
func OpenDB(dsn string) (*sql.DB, error) {
	return sql.Open("postgres", dsn)
}
