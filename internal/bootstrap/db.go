package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tsirionantsoa/taskhub/config"
	httpapi "github.com/tsirionantsoa/taskhub/internal/api/http"
	"github.com/tsirionantsoa/taskhub/internal/platform/database"
	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
}

// Stores holds every backing connection. Pool and Redis are nil when unused.
type Stores struct {
	DB    *database.DB
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

// OpenStores opens the configured database with its schema applied.
// Redis is connected only when REDIS_ADDR is set.
func OpenStores(ctx context.Context, cfg *config.Config, opt DBOptions) (*Stores, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	s := &Stores{}
	if cfg.Database.Driver == config.DriverPostgres {
		pool, err := database.NewPool(cctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		s.Pool = pool
		if err := database.MigratePostgres(cctx, pool); err != nil {
			s.Close()
			return nil, err
		}
	}

	db, err := database.Open(cctx, cfg.Database)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("db open: %w", err)
	}
	s.DB = db

	if cfg.Redis.Enabled() {
		s.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
		defer pcancel()
		if err := s.Redis.Ping(pctx).Err(); err != nil {
			logging.NewLogger(ctx).LogWarnf("bootstrap.redis", "redis ping failed addr=%s error=%v; counts fall back to the database", cfg.Redis.Addr, err)
		}
	}

	return s, nil
}

// Pinger returns the handle the health check should ping.
func (s *Stores) Pinger() httpapi.Pinger {
	if s.Pool != nil {
		return s.Pool
	}
	return s.DB
}

func (s *Stores) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.DB != nil {
		_ = s.DB.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}
