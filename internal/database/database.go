package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bestsellers/internal/config"
	"github.com/mrlokans/bestsellers/internal/entities"
)

type Database struct {
	DB     *gorm.DB
	sqlite bool
}

// Option customises the gorm configuration used by NewDatabase.
type Option func(*gorm.Config)

// WithLogLevel overrides the gorm log level (tests use logger.Silent).
func WithLogLevel(level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = logger.Default.LogMode(level)
	}
}

// NewDatabase opens PostgreSQL when cfg.URL is set and SQLite at cfg.Path otherwise,
// then migrates the schema.
func NewDatabase(cfg config.Database, opts ...Option) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	var (
		dialector gorm.Dialector
		isSQLite  bool
		target    string
	)
	if cfg.URL != "" {
		dialector = postgres.Open(cfg.URL)
		target = "postgres"
	} else {
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
		isSQLite = true
		target = cfg.Path
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		// One writer keeps SQLite from returning "database is locked" under load.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.UserBook{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database initialized", "target", target)

	return &Database{DB: db, sqlite: isSQLite}, nil
}

// sqliteDSN turns on foreign key enforcement so ledger rows cascade.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// IsSQLite reports whether the database is backed by SQLite.
func (d *Database) IsSQLite() bool {
	return d.sqlite
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
// TranslateError covers both drivers; the string checks catch errors that
// escaped translation (e.g. raised inside a transaction callback).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
