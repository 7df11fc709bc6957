package create

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type Command struct {
	*base.Command

	// Factory mints the UDIs. Defaults to random GUID values.
	Factory *udi.Factory

	flagConfig string
	flagCount  int
	flagStrict bool
}

func (c *Command) Synopsis() string {
	return "Create new UDIs"
}

func (c *Command) Help() string {
	return `Usage: udi create [options] <entityType>

  Creates UDIs for the given entity type, each with a new random GUID value,
  and prints one per line.

  The entity type is used as given. With -strict it must be a registered
  entity type with GUID values.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to a config file declaring additional entity types.",
	)
	f.IntVar(
		&c.flagCount, "count", 1,
		"Number of UDIs to create.",
	)
	f.BoolVar(
		&c.flagStrict, "strict", false,
		"Require a registered entity type with GUID values.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = flags.Args()
	if len(args) != 1 {
		ui.Error("exactly one entity type is required")
		return 1
	}
	entityType := args[0]

	if c.flagCount < 1 {
		ui.Error("count must be at least 1")
		return 1
	}

	if c.flagStrict {
		reg, err := c.Registry(c.flagConfig)
		if err != nil {
			ui.Error(err.Error())
			return 1
		}
		def, ok := reg.Get(entityType)
		if !ok {
			ui.Error(fmt.Sprintf("%v: %q", udi.ErrUnknownEntityType, entityType))
			return 1
		}
		if def.Kind != udi.KindGUID {
			ui.Error(fmt.Sprintf("entity type %q has %s values and cannot be created", entityType, def.Kind))
			return 1
		}
	}

	factory := c.Factory
	if factory == nil {
		factory = udi.NewFactory(nil)
	}

	for i := 0; i < c.flagCount; i++ {
		ui.Output(factory.Create(entityType))
	}
	return 0
}
