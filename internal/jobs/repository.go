package jobs

import (
	"fmt"

	"github.com/nulzo/inference-gateway/internal/config"
	"github.com/nulzo/inference-gateway/internal/store"
	"github.com/nulzo/inference-gateway/internal/store/memory"
	"github.com/nulzo/inference-gateway/internal/store/redisstore"
	"github.com/nulzo/inference-gateway/internal/store/sqlstore"
)

// OpenRepository builds the job backend named by cfg.Store.
func OpenRepository(cfg config.JobsConfig) (store.JobRepository, error) {
	switch cfg.Store {
	case "", "memory":
		return memory.NewJobStore(), nil
	case "sqlite", sqlstore.DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "file:gateway.db?_journal_mode=WAL&_busy_timeout=5000"
		}
		return sqlstore.Open(sqlstore.DriverSQLite, dsn)
	case sqlstore.DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("jobs.dsn is required for the postgres job store")
		}
		return sqlstore.Open(sqlstore.DriverPostgres, cfg.DSN)
	case "redis":
		return redisstore.New(redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	return nil, fmt.Errorf("unknown job store %q", cfg.Store)
}

// OptionsFrom maps the jobs config section onto manager options.
func OptionsFrom(cfg config.JobsConfig) Options {
	return Options{
		Stripes:               cfg.Stripes,
		BatchItemDuration:     cfg.BatchItemDuration,
		DefaultItemPriceUSD:   cfg.DefaultItemPriceUSD,
		OutputBaseURL:         cfg.OutputBaseURL,
		TrainingQueueDelay:    cfg.TrainingQueueDelay,
		TrainingEpochDuration: cfg.TrainingEpochDuration,
		GPUEpochRateUSD:       cfg.GPUEpochRateUSD,
	}
}
