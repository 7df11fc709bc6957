package version

import (
	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version of udi"
}

func (c *Command) Help() string {
	return "Usage: udi version\n\n  Prints the version of udi."
}

func (c *Command) Run(args []string) int {
	c.UI.Output(version.Version)
	return 0
}
