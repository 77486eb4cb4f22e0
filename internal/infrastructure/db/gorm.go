package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pawnshop-ledger/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool sizes the database/sql pool under gorm.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// ServerPool suits MySQL and Postgres.
var ServerPool = Pool{MaxOpen: 30, MaxIdle: 10, MaxLifetime: 30 * time.Minute, MaxIdleTime: 10 * time.Minute}

// SQLitePool serializes writers; sqlite has a single write lock.
var SQLitePool = Pool{MaxOpen: 1, MaxIdle: 1}

const pingTimeout = 5 * time.Second

// SQLiteDSN makes every transaction take the write lock at BEGIN and wait
// for it, so two processes sharing the file run their transactions one
// after the other.
func SQLiteDSN(path string) string { return path + "?_busy_timeout=5000&_txlock=immediate" }

// Dialector picks the gorm driver named by cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, Pool, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		return mysql.Open(cfg.MySQLDSN()), ServerPool, nil
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN), ServerPool, nil
	case config.DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg.SQLitePath)), SQLitePool, nil
	}
	return nil, Pool{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

func OpenGorm(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dial, pool, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return Open(ctx, dial, pool)
}

// Open connects through dial, applies pool and pings once.
func Open(ctx context.Context, dial gorm.Dialector, pool Pool) (*gorm.DB, error) {
	gdb, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dial.Name(), err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dial.Name(), err)
	}
	slog.Info("database connected", "dialect", dial.Name(), "max_open", pool.MaxOpen)
	return gdb, nil
}
