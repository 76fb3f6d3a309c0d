package db

import (
	"context"
	"fmt"
	"itinsort/internal/config"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const applicationName = "itinsort"

const (
	minConns          = 1
	maxConnIdleTime   = 5 * time.Minute
	healthCheckPeriod = time.Minute
)

func poolConfig(cfg config.DbServer) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.GetURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if poolCfg.MaxConns >= minConns {
		poolCfg.MinConns = minConns
	}
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.HealthCheckPeriod = healthCheckPeriod
	poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	return poolCfg, nil
}

// CreatePoolAndPing opens a pool for the snapshot repository and checks it
// can reach the server.
func CreatePoolAndPing(ctx context.Context, cfg config.DbServer) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	logrus.WithFields(logrus.Fields{"host": cfg.Host, "db": cfg.Name, "max_conns": poolCfg.MaxConns}).Debug("db pool ready")
	return pool, nil
}
