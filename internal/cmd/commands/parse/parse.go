package parse

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
	flagStrict bool
}

// Result describes one parsed input.
type Result struct {
	Input      string  `json:"input" yaml:"input"`
	Udi        string  `json:"udi,omitempty" yaml:"udi,omitempty"`
	EntityType string  `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
	Value      *string `json:"value,omitempty" yaml:"value,omitempty"`
	Root       bool    `json:"root" yaml:"root"`
	Key        string  `json:"key,omitempty" yaml:"key,omitempty"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func (c *Command) Synopsis() string {
	return "Parse UDI strings"
}

func (c *Command) Help() string {
	return `Usage: udi parse [options] <udi>...

  Parses each argument as a UDI (umb://{entityType}/{value}) and prints its
  entity type and value. Exits with status 1 if any argument is not a UDI.

  With -strict, each UDI is also checked against the entity type registry.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("parse", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to a config file declaring additional entity types.",
	)
	f.StringVar(
		&c.flagFormat, "format", base.FormatText,
		"Output format: text, json or yaml.",
	)
	f.BoolVar(
		&c.flagStrict, "strict", false,
		"Validate each UDI against the entity type registry.",
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

	args = flags.Args()
	if len(args) == 0 {
		ui.Error("at least one UDI is required")
		return 1
	}

	var reg *udi.Registry
	if c.flagStrict {
		var err error
		if reg, err = c.Registry(c.flagConfig); err != nil {
			ui.Error(err.Error())
			return 1
		}
	}

	results := make([]Result, 0, len(args))
	failed := false
	for _, arg := range args {
		res := parseOne(arg, reg)
		if res.Error != "" {
			failed = true
		}
		results = append(results, res)
	}

	if c.flagFormat == base.FormatText {
		for _, res := range results {
			if res.Error != "" {
				ui.Error(fmt.Sprintf("%s: %s", res.Input, res.Error))
				continue
			}
			ui.Output(res.text())
		}
	} else if err := c.OutputStructured(c.flagFormat, results); err != nil {
		ui.Error(err.Error())
		return 1
	}

	if failed {
		return 1
	}
	return 0
}

func parseOne(input string, reg *udi.Registry) Result {
	res := Result{Input: input}

	u, ok := udi.ParseString(input)
	if !ok {
		res.Error = udi.ErrNotUdi.Error()
		return res
	}

	res.Udi = u.String()
	res.EntityType = u.EntityType()
	if v, ok := u.Value(); ok {
		res.Value = &v
	}
	res.Root = u.IsRoot()
	res.Key = udi.GetKey(input)

	if reg != nil {
		if err := reg.Validate(u); err != nil {
			res.Error = flatten(err)
		}
	}
	return res
}

func (r Result) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  entity type: %s\n", r.Udi, r.EntityType)
	if r.Value != nil {
		fmt.Fprintf(&b, "  value:       %s\n", *r.Value)
	}
	if r.Key != "" && (r.Value == nil || r.Key != *r.Value) {
		fmt.Fprintf(&b, "  key:         %s\n", r.Key)
	}
	fmt.Fprintf(&b, "  root:        %t", r.Root)
	return b.String()
}

// flatten renders a validation error on one line.
func flatten(err error) string {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return err.Error()
	}
	parts := make([]string, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}
