package internal

import (
	"context"
	"fmt"
	"net"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/repit/internal/config"
	"github.com/2beens/repit/internal/db"
	"github.com/2beens/repit/internal/kv"
)

// Storage is the opened key-value backend plus the raw clients behind it.
// Redis is nil unless the redis backend is selected; DBPool likewise for postgres.
type Storage struct {
	KV         kv.Store
	Redis      *redis.Client
	DBPool     *pgxpool.Pool
	Collectors []prometheus.Collector
}

func NewRedisClient(ctx context.Context, host, port, password string) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: password,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	return rdb
}

// OpenStorage connects to the backend named in cfg.StorageBackend.
func OpenStorage(
	ctx context.Context,
	cfg *config.Config,
	secrets config.Secrets,
) (*Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendRedis:
		rdb := NewRedisClient(ctx, cfg.RedisHost, cfg.RedisPort, secrets.RedisPassword)
		return &Storage{
			KV:    kv.NewRedisStore(rdb),
			Redis: rdb,
		}, nil

	case config.StorageBackendPostgres:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         secrets.PostgresUser,
			DBPassword:     secrets.PostgresPassword,
			TracingEnabled: cfg.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}

		pgStore := kv.NewPostgresStore(dbPool)
		if err := pgStore.Migrate(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate kv table: %w", err)
		}

		return &Storage{
			KV:         pgStore,
			DBPool:     dbPool,
			Collectors: []prometheus.Collector{db.PoolCollector(dbPool, cfg.PostgresDBName)},
		}, nil

	case config.StorageBackendMemory:
		log.Warnln("memory storage backend selected, data will not survive a restart")
		return &Storage{
			KV: kv.NewMemoryStore(),
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
}

// Close releases the backend; the kv store owns its redis client or db pool.
func (s *Storage) Close() {
	if s == nil || s.KV == nil {
		return
	}
	if err := s.KV.Close(); err != nil {
		log.Errorf("failed to close storage: %s", err)
	}
}
