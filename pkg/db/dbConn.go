package db

import (
	"context"
	"fmt"
	"lightwatch/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Open connects the postgres snapshot backend: pool, ping and table, all
// bounded by timeout. The returned repository owns the pool.
func Open(ctx context.Context, dbCfg *config.DBConfig, timeout time.Duration, log *zerolog.Logger) (*StateRepository, error) {
	poolCfg, err := poolConfig(dbCfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	setupCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(setupCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}

	repo, err := NewStateRepository(setupCtx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	repo.release = pool.Close

	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("postgres state store ready")
	return repo, nil
}

// one row and one writer, the pool only needs to survive a reconnect
func poolConfig(dbCfg *config.DBConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	if dbCfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = dbCfg.MaxOpenConns
	}
	poolCfg.MinConns = min(dbCfg.MinIdleConns, poolCfg.MaxConns)
	if dbCfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = dbCfg.ConnMaxLifetime
	}
	if dbCfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = dbCfg.ConnMaxIdleTime
	}

	return poolCfg, nil
}
