package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	appconfig "github.com/eksdesign/stand-platform/internal/config"
	appmigrations "github.com/eksdesign/stand-platform/migrations"
	"github.com/eksdesign/stand-platform/pkg/logging"
)

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Force(version int) error
	Version() (uint, bool, error)
}

// Usage: migrate [up | down [n] | force <version> | version]
func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	m, closeFn, err := openMigrator(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open migrator", "error", err)
		os.Exit(1)
	}
	err = run(m, os.Args[1:], logger)
	closeFn()
	if err != nil {
		logger.Error("migration command failed", "args", os.Args[1:], "error", err)
		os.Exit(1)
	}
}

func openMigrator(databaseURL string) (*migrate.Migrate, func(), error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db driver: %w", err)
	}
	src, err := iofs.New(appmigrations.FS, ".")
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("source driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", dbDriver)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, func() { _, _ = m.Close() }, nil
}

func run(m migrator, args []string, logger *logging.Logger) error {
	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("schema already up to date")
				return nil
			}
			return fmt.Errorf("up: %w", err)
		}
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("down: step count must be a positive integer, got %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("down %d: %w", steps, err)
		}
	case "force":
		if len(args) < 2 {
			return errors.New("force: version is required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force %d: %w", v, err)
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read version: %w", err)
	}
	logger.Info("migrations complete", "command", cmd, "version", version, "dirty", dirty)
	return nil
}
