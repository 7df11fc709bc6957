package operator

import (
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Perform operator-specific tasks"
}

func (c *Command) Help() string {
	return `Usage: udi operator <subcommand> [options] [args]

  This command groups subcommands for operators managing the entity key
  store.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
