package app

import (
	"database/sql"

	"go-payroll/internal/config"
	"go-payroll/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const maxConnectRetries = 5

// infra holds the connections shared by the api, worker and consumer
// processes.
type infra struct {
	gormDB *gorm.DB
	sqlDB  *sql.DB
	rdb    *redis.Client
}

func connectInfra(cfg config.Config) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, maxConnectRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, maxConnectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &infra{gormDB: gormDB, sqlDB: sqlDB, rdb: rdb}, nil
}

func (i *infra) Close() {
	if err := i.rdb.Close(); err != nil {
		zap.L().Warn("close redis failed", zap.Error(err))
	}
	if err := i.sqlDB.Close(); err != nil {
		zap.L().Warn("close database failed", zap.Error(err))
	}
}
