package operator

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/internal/migrate"
	"github.com/hashicorp-forge/udi/pkg/keymap"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type MigrateCommand struct {
	*base.Command

	flagConfig string
}

func (c *MigrateCommand) Synopsis() string {
	return "Migrate the database schema and sync entity types"
}

func (c *MigrateCommand) Help() string {
	return `Usage: udi operator migrate -config=<file>

  This command applies any pending schema migrations to the configured
  database, then writes the built-in and configured entity types to the
  entity_types table.` +
		c.Flags().Help()
}

func (c *MigrateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("migrate", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to udi config file",
	)

	return f
}

func (c *MigrateCommand) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}

	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}
	reg, err := cfg.Registry()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	db, err := c.OpenDatabase(cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}
	sqlDB, err := db.DB()
	if err != nil {
		ui.Error(fmt.Sprintf("error getting database handle: %v", err))
		return 1
	}

	driver := cfg.Database.Driver
	if err := migrate.RunMigrations(sqlDB, driver); err != nil {
		ui.Error(fmt.Sprintf("error running migrations: %v", err))
		return 1
	}
	version, _, err := migrate.GetMigrationVersion(sqlDB, driver)
	if err != nil {
		ui.Error(fmt.Sprintf("error reading migration version: %v", err))
		return 1
	}
	ui.Info(fmt.Sprintf("Database schema at version %d", version))

	if err := keymap.SyncRegistry(db, reg, udi.DefaultEntityTypes()); err != nil {
		ui.Error(fmt.Sprintf("error syncing entity types: %v", err))
		return 1
	}
	ui.Info(fmt.Sprintf("Synced %d entity types", reg.Len()))

	return 0
}
