// Package store persists decode-session diagnostics: one row per RX
// session describing the mode, equalizer variant, sync outcome, and a
// rough BER estimate, so a batch of sessions can be reviewed after the
// fact. Uses a pure-Go modernc.org/sqlite dialector with WAL/busy-timeout
// PRAGMA tuning and AutoMigrate-on-open, as an append-only diagnostics log.
package store

import (
	"database/sql"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// Config holds database configuration.
type Config struct {
	Path string // Path to SQLite database file, or ":memory:" for a scratch DB.
}

// DB wraps the GORM database instance.
type DB struct {
	db *gorm.DB
}

// NewDB opens (creating if necessary) the diagnostics database and
// auto-migrates the DecodeAttempt schema.
func NewDB(config Config, lg *log.Logger) (*DB, error) {
	var gormLog logger.Interface
	if lg != nil {
		gormLog = logger.New(lg, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{DriverName: "sqlite", DSN: config.Path}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := configureSQLite(sqlDB); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&DecodeAttempt{}); err != nil {
		return nil, err
	}

	if lg != nil {
		lg.Printf("store: diagnostics database initialized: %s", config.Path)
	}
	return &DB{db: db}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

// GetDB returns the underlying GORM database instance.
func (db *DB) GetDB() *gorm.DB { return db.db }

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks if the database connection is healthy.
func (db *DB) Health() error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
