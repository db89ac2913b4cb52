package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"finance4all/internal/config"
	"finance4all/internal/database"
	"finance4all/internal/logger"
)

const usage = "usage: migrate <up|down|version|seed> [N]"

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Env, "finance4all-migrate")
	defer logger.Sync()

	command := os.Args[1]

	// SQLite schemas are managed by gorm and seeding goes through the
	// manager either way.
	if command == "seed" || cfg.DBDriver == config.DriverSQLite {
		return runWithManager(cfg, command)
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		logger.Get().Info("Migrations applied successfully")

	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)

	default:
		return fmt.Errorf("unknown command: %s (%s)", command, usage)
	}

	return nil
}

func runWithManager(cfg *config.Config, command string) error {
	mgr, err := database.NewManager(cfg)
	if err != nil {
		return err
	}
	defer mgr.Close()

	ctx := context.Background()
	switch command {
	case "up":
		return mgr.Migrate(ctx)
	case "seed":
		if err := database.SeedDefaultCategories(ctx, mgr.DB()); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
		logger.Get().Info("Default categories seeded")
		return nil
	default:
		return fmt.Errorf("command %q is not supported for driver %s", command, cfg.DBDriver)
	}
}
