package operator

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/database"
	"github.com/hashicorp-forge/udi/pkg/keymap"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type AssignUDIsCommand struct {
	*base.Command

	// Factory mints the UDIs. Defaults to random GUID values.
	Factory *udi.Factory

	flagConfig    string
	flagDryRun    bool
	flagBatchSize int
	flagVerbose   bool
}

func (c *AssignUDIsCommand) Synopsis() string {
	return "Assign UDIs to entity keys that don't have them"
}

func (c *AssignUDIsCommand) Help() string {
	return `Usage: udi operator assign-udis

  This command assigns a new UDI to every entity key that doesn't have one.
  Keys are processed in batches with progress logging. Keys whose entity
  type is not registered, or does not take GUID values, are skipped.` +
		c.Flags().Help()
}

func (c *AssignUDIsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(
		flag.NewFlagSet("assign-udis", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to udi config file",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Only print what would be done without making changes.",
	)
	f.IntVar(
		&c.flagBatchSize, "batch-size", 100,
		"Number of entity keys to process per batch.",
	)
	f.BoolVar(
		&c.flagVerbose, "verbose", false,
		"Log each UDI assignment and report connection pool usage.",
	)

	return f
}

func (c *AssignUDIsCommand) Run(args []string) int {
	ui := c.UI

	// Parse flags.
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	// Validate flags.
	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}
	if c.flagBatchSize < 1 {
		ui.Error("batch-size must be at least 1")
		return 1
	}

	// Parse configuration.
	cfg, err := c.LoadConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}
	if c.flagVerbose && c.Log != nil {
		c.Log.SetLevel(hclog.Debug)
	}
	reg, err := cfg.Registry()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	// Initialize database.
	db, err := c.OpenDatabase(cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	var opts []keymap.Option
	if c.Factory != nil {
		opts = append(opts, keymap.WithFactory(c.Factory))
	}
	resolver := keymap.NewResolver(db, reg, c.Log, opts...)

	if c.flagDryRun {
		ui.Warn("DRY RUN mode enabled - no changes will be made")
	}

	ctx, stop := c.SignalContext()
	defer stop()

	stats, err := resolver.AssignMissing(ctx, c.flagBatchSize, c.flagDryRun)

	// Final summary.
	if stats.Total == 0 && err == nil {
		ui.Info("All entity keys already have UDIs assigned")
		return 0
	}
	ui.Info("")
	ui.Info("=== Summary ===")
	ui.Info(fmt.Sprintf("Entity keys without UDIs: %d", stats.Total))
	ui.Info(fmt.Sprintf("Entity keys processed: %d", stats.Processed))
	if c.flagDryRun {
		ui.Info(fmt.Sprintf("Would assign UDIs to: %d entity keys", stats.Assigned))
	} else {
		ui.Info(fmt.Sprintf("UDIs assigned: %d", stats.Assigned))
	}
	if stats.Skipped > 0 {
		ui.Warn(fmt.Sprintf("Skipped: %d", stats.Skipped))
	}
	if c.flagVerbose {
		if pool, perr := database.Stats(db); perr == nil {
			ui.Info(fmt.Sprintf("Connection pool: %s", pool))
		}
	}
	if err != nil {
		ui.Error(fmt.Sprintf("error assigning UDIs: %v", err))
		return 1
	}

	if c.flagDryRun {
		ui.Warn("DRY RUN completed - no changes were made")
	} else {
		ui.Info("UDI assignment completed successfully")
	}

	return 0
}
