// Package database owns the gorm connection, schema migrations and the seed
// data every deployment needs.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance4all/internal/config"
	"finance4all/internal/logger"
	"finance4all/internal/models"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Manager handles database operations
type Manager struct {
	db             *gorm.DB
	driver         string
	migrateURL     string
	migrationsPath string
}

// NewManager opens the database selected by cfg.DBDriver.
func NewManager(cfg *config.Config) (*Manager, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	m := &Manager{driver: cfg.DBDriver, migrationsPath: cfg.MigrationsPath}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.PostgresDSN(),
			PreferSimpleProtocol: true,
		})
		m.migrateURL = cfg.PostgresURL()
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBSQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if cfg.DBDriver == config.DriverSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	m.db = db
	return m, nil
}

// NewFromDB wraps an existing connection. Used by tests and tools that open
// their own gorm handle.
func NewFromDB(db *gorm.DB, driver string) *Manager {
	return &Manager{db: db, driver: driver, migrationsPath: "migrations"}
}

// Migrate brings the schema up to date and seeds the default categories.
// PostgreSQL uses the versioned SQL files; SQLite uses gorm's AutoMigrate.
func (m *Manager) Migrate(ctx context.Context) error {
	log := logger.Get()
	log.Infow("Running database migrations", "driver", m.driver)

	if m.driver == config.DriverPostgres {
		if err := m.runSQLMigrations(); err != nil {
			return err
		}
	} else if err := m.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}

	if err := SeedDefaultCategories(ctx, m.db); err != nil {
		return fmt.Errorf("seed default categories: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

func (m *Manager) runSQLMigrations() error {
	mig, err := migrate.New("file://"+m.migrationsPath, m.migrateURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Ping checks that the database answers.
func (m *Manager) Ping(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
