// Package database manages the connection pool for the licence database.
package database

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/hmpps/licence-management-api/internal/system/config"
	"github.com/hmpps/licence-management-api/internal/system/log"
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = 5 * time.Minute
)

type DB struct {
	conn *sqlx.DB
}

var dbInstance *DB

// Initialize opens the connection pool described by the database
// configuration and stores it for process-wide access.
func Initialize(cfg *config.DatabaseConfig) (*DB, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Database"))

	conn, err := sqlx.Open("mysql", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	conn.SetMaxOpenConns(maxOpenConns)
	conn.SetMaxIdleConns(maxIdleConns)
	conn.SetConnMaxLifetime(connMaxLifetime)

	db := &DB{conn: conn}
	dbInstance = db

	logger.Debug("Database connection pool initialized",
		log.String("host", cfg.Host), log.String("database", cfg.Name))

	return db, nil
}

// GetInstance returns the initialized connection pool.
func GetInstance() *DB {
	if dbInstance == nil {
		panic("database has not been initialized")
	}
	return dbInstance
}

func (db *DB) Conn() *sqlx.DB {
	return db.conn
}

func (db *DB) HealthCheck() error {
	if err := db.conn.Ping(); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}
