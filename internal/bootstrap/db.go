package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/landmark-estates/landmark-web/config"
	"github.com/landmark-estates/landmark-web/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
}

func (o *DBOptions) defaults() {
	if o.ConnectTO == 0 {
		o.ConnectTO = 5 * time.Second
	}
	if o.PingTO == 0 {
		o.PingTO = 2 * time.Second
	}
}

// OpenSessionDB connects to postgres and makes sure the session table exists.
func OpenSessionDB(ctx context.Context, cfg *config.DatabaseConfig, opt DBOptions) (*sql.DB, error) {
	opt.defaults()

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	db, err := postgres.NewConnection(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := postgres.EnsureSessionSchema(cctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRedis connects to redis and pings it once.
func OpenRedis(ctx context.Context, cfg *config.RedisConfig, opt DBOptions) (*redis.Client, error) {
	opt.defaults()

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: opt.ConnectTO,
	})

	pctx, cancel := context.WithTimeout(ctx, opt.PingTO)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
