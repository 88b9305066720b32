// Command migrate applies the SQL migrations under migrations/ to the
// PostgreSQL database configured in the environment.
//
//	migrate up            apply every pending migration
//	migrate down [N]      roll back N migrations (default 1)
//	migrate goto V        migrate up or down to version V
//	migrate force V       mark version V as applied and clean after a failed run
//	migrate version       print the current version
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"navtracker/internal/config"
	"navtracker/internal/database"
	"navtracker/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const usage = "usage: migrate <up|down [N]|goto V|force V|version>"

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Get().Fatalw("Migration failed", "error", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbConfig := database.NewConfig(cfg)
	if dbConfig.Driver == database.DriverSQLite {
		return errors.New("SQL migrations target PostgreSQL; SQLite databases are migrated on startup")
	}

	m, err := migrate.New(dbConfig.SourceURL(), dbConfig.MigrationURL())
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Get().Warnw("Closing migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnw("Closing migration database", "error", dbErr)
		}
	}()

	log := logger.Get()
	switch args[0] {
	case "up":
		if err := ignoreNoChange(m.Up()); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		log.Info("Database is up to date")

	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = positive(args[1]); err != nil {
				return err
			}
		}
		if err := ignoreNoChange(m.Steps(-steps)); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		log.Infow("Rolled back migrations", "steps", steps)

	case "goto":
		if len(args) < 2 {
			return errors.New(usage)
		}
		version, err := positive(args[1])
		if err != nil {
			return err
		}
		if err := ignoreNoChange(m.Migrate(uint(version))); err != nil {
			return fmt.Errorf("migrate goto %d: %w", version, err)
		}
		log.Infow("Migrated", "version", version)

	case "force":
		if len(args) < 2 {
			return errors.New(usage)
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("migrate force %d: %w", version, err)
		}
		log.Infow("Forced migration version", "version", version)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Info("No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		log.Infow("Migration version", "version", version, "dirty", dirty)

	default:
		return fmt.Errorf("unknown command %q; %s", args[0], usage)
	}
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("expected a positive number, got %q", s)
	}
	return n, nil
}
