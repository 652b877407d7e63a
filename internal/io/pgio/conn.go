package pgio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/screenload/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func pgxConn(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		slog.Error("Cannot parse pgx config", "error", err)
		return nil, err
	}
	pgxCfg.MaxConns = 4

	db, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		slog.Error("Cannot connect to database", "error", err)
		return nil, err
	}
	return db, nil
}

// DSN returns a connection string for PostgreSQL.
func DSN(cfg config.Config) string {
	port := cfg.DBPort
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, port, cfg.DBUser, cfg.DBPass, cfg.DBName,
	)
}
