package types

import (
	"bytes"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
	flagKind   string
}

func (c *Command) Synopsis() string {
	return "List registered entity types"
}

func (c *Command) Help() string {
	return `Usage: udi types [options]

  Lists the entity types UDIs can be created for, with the kind of value
  each one takes (guid or string). Types declared in the config file are
  listed alongside the built-in ones.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("types", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to a config file declaring additional entity types.",
	)
	f.StringVar(
		&c.flagFormat, "format", base.FormatText,
		"Output format: text, json or yaml.",
	)
	f.StringVar(
		&c.flagKind, "kind", "",
		"Only list entity types of this kind (guid or string).",
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
	if err := base.ValidFormat(c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}
	if len(flags.Args()) > 0 {
		ui.Error("this command takes no arguments")
		return 1
	}

	reg, err := c.Registry(c.flagConfig)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	defs := reg.List()
	if c.flagKind != "" {
		filtered := defs[:0]
		for _, def := range defs {
			if string(def.Kind) == c.flagKind {
				filtered = append(filtered, def)
			}
		}
		defs = filtered
	}

	if c.flagFormat != base.FormatText {
		if err := c.OutputStructured(c.flagFormat, defs); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tDESCRIPTION")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, def.Kind, def.Description)
	}
	w.Flush()
	ui.Output(strings.TrimRight(buf.String(), "\n"))

	return 0
}
