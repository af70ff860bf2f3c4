// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/unclebandit/customer-service/internal/config"
	"github.com/unclebandit/customer-service/internal/logs"
)

// Open connects to the configured store and pings it.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	var driverName, dsn string
	switch cfg.DBDriver {
	case config.DriverPostgres:
		driverName, dsn = "postgres", cfg.PostgresDSN()
		logs.Log.WithFields(map[string]any{
			"db_user": cfg.DBUser,
			"db_name": cfg.DBName,
			"db_host": cfg.DBHost,
		}).Info("opening postgres")
	case config.DriverSQLite:
		driverName, dsn = "sqlite3", cfg.SQLitePath
		logs.Log.WithField("path", dsn).Info("opening sqlite")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if driverName == "sqlite3" {
		// sqlite allows a single writer.
		conn.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logs.Log.Info("✅ Connected to database")
	return conn, nil
}

// OpenGorm wraps an open sqlite connection in a GORM handle.
func OpenGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	return gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}
