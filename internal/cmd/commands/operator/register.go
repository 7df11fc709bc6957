package operator

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/keymap"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type RegisterCommand struct {
	*base.Command

	// Factory mints the UDI. Defaults to random GUID values.
	Factory *udi.Factory

	flagConfig string
}

func (c *RegisterCommand) Synopsis() string {
	return "Store a new entity key with a fresh UDI"
}

func (c *RegisterCommand) Help() string {
	return `Usage: udi operator register -config=<file> <entityType> [name]

  This command mints a UDI for the given entity type, stores it as a new
  entity key and prints it. The entity type must be registered and take
  GUID values.` +
		c.Flags().Help()
}

func (c *RegisterCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("register", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to udi config file",
	)

	return f
}

func (c *RegisterCommand) Run(args []string) int {
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

	args = flags.Args()
	if len(args) < 1 || len(args) > 2 {
		ui.Error("an entity type and an optional name are required")
		return 1
	}
	entityType := args[0]
	var name string
	if len(args) == 2 {
		name = args[1]
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

	var opts []keymap.Option
	if c.Factory != nil {
		opts = append(opts, keymap.WithFactory(c.Factory))
	}
	ctx, stop := c.SignalContext()
	defer stop()

	key, err := keymap.NewResolver(db, reg, c.Log, opts...).
		Register(ctx, entityType, name)
	if err != nil {
		ui.Error(fmt.Sprintf("error registering entity key: %v", err))
		return 1
	}

	ui.Output(key.Udi.Udi.String())
	return 0
}
