package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	golangmigrate "github.com/golang-migrate/migrate/v4"
	"github.com/hashicorp/go-hclog"

	// lib/pq registers "postgres". The "sqlite" driver is registered by
	// golang-migrate's sqlite package via modernc.org/sqlite.
	_ "github.com/lib/pq"

	"github.com/hashicorp-forge/udi/internal/migrate"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "udi-migrate",
		Output: os.Stderr,
	})

	fs := flag.NewFlagSet("udi-migrate", flag.ContinueOnError)
	driver := fs.String("driver", migrate.DriverPostgres, "Database driver (postgres|sqlite)")
	dsn := fs.String("dsn", "", "Database connection string")
	down := fs.Int("down", 0, "Roll back this many migrations instead of migrating up")
	showVersion := fs.Bool("version", false, "Print the current schema version and exit")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: udi-migrate [OPTIONS]\n\n")
		fmt.Fprintf(out, "Applies the entity key store schema migrations.\n")
		fmt.Fprintf(out, "It supports both PostgreSQL and SQLite databases.\n\n")
		fmt.Fprintf(out, "OPTIONS:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nEXAMPLES:\n\n")
		fmt.Fprintf(out, "  PostgreSQL:\n")
		fmt.Fprintf(out, "    udi-migrate -driver=postgres -dsn=\"host=localhost user=postgres password=postgres dbname=udi port=5432 sslmode=disable\"\n\n")
		fmt.Fprintf(out, "  SQLite:\n")
		fmt.Fprintf(out, "    udi-migrate -driver=sqlite -dsn=\".udi/udi.db\"\n\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *dsn == "" {
		log.Error("-dsn flag is required; run with -help for usage information")
		return 1
	}
	if *driver != migrate.DriverPostgres && *driver != migrate.DriverSQLite {
		log.Error("unsupported driver (must be postgres or sqlite)", "driver", *driver)
		return 1
	}

	log.Info("connecting to database", "driver", *driver)
	sqlDB, err := sql.Open(*driver, *dsn)
	if err != nil {
		log.Error("failed to open database", "error", err)
		return 1
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Error("failed to ping database", "error", err)
		return 1
	}

	switch {
	case *showVersion:
	case *down > 0:
		log.Info("rolling back migrations", "steps", *down)
		if err := migrate.RollbackMigrations(sqlDB, *driver, *down); err != nil {
			log.Error("rollback failed", "error", err)
			return 1
		}
	default:
		log.Info("running migrations")
		if err := migrate.RunMigrations(sqlDB, *driver); err != nil {
			log.Error("migration failed", "error", err)
			return 1
		}
	}

	version, dirty, err := migrate.GetMigrationVersion(sqlDB, *driver)
	switch {
	case errors.Is(err, golangmigrate.ErrNilVersion):
		log.Info("no migrations applied")
	case err != nil:
		log.Error("failed to read schema version", "error", err)
		return 1
	default:
		log.Info("schema version", "version", version, "dirty", dirty)
	}

	return 0
}
