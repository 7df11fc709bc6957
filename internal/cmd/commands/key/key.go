package key

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the key of a UDI"
}

func (c *Command) Help() string {
	return `Usage: udi key <udi>

  Prints the key of a UDI. GUID values are printed in hyphenated form;
  other values are printed unchanged. Type roots have no key.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	return base.NewFlagSet(flag.NewFlagSet("key", flag.ContinueOnError))
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
		ui.Error("exactly one UDI is required")
		return 1
	}

	u, ok := udi.ParseString(args[0])
	if !ok {
		ui.Error(fmt.Sprintf("%v: %q", udi.ErrNotUdi, args[0]))
		return 1
	}
	if u.IsRoot() {
		ui.Error(fmt.Sprintf("%s is a type root and has no key", u))
		return 1
	}

	ui.Output(udi.GetKey(args[0]))
	return 0
}
