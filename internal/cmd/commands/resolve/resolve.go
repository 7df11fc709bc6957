package resolve

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/keymap"
	"github.com/hashicorp-forge/udi/pkg/models"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type Command struct {
	*base.Command

	flagConfig string
	flagFormat string
}

// Result describes a resolved entity key.
type Result struct {
	Reference  string `json:"reference" yaml:"reference"`
	ID         uint   `json:"id" yaml:"id"`
	Udi        string `json:"udi,omitempty" yaml:"udi,omitempty"`
	EntityType string `json:"entity_type" yaml:"entity_type"`
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (c *Command) Synopsis() string {
	return "Resolve an entity reference against the database"
}

func (c *Command) Help() string {
	return `Usage: udi resolve -config=<file> [options] <reference>

  Looks up the entity key a reference points at. The reference may be a
  UDI or a legacy numeric ID. A hyphenated GUID key matches the UDI with
  that value. Local links such as {localLink:umb://...} are also accepted.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("resolve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "(Required) Path to udi config file",
	)
	f.StringVar(
		&c.flagFormat, "format", base.FormatText,
		"Output format: text, json or yaml.",
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
	if c.flagConfig == "" {
		ui.Error("config flag is required")
		return 1
	}
	if err := base.ValidFormat(c.flagFormat); err != nil {
		ui.Error(err.Error())
		return 1
	}

	args = flags.Args()
	if len(args) != 1 {
		ui.Error("exactly one reference is required")
		return 1
	}

	ref, err := parseReference(args[0])
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing reference: %v", err))
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

	ctx, stop := c.SignalContext()
	defer stop()

	key, err := keymap.NewResolver(db, reg, c.Log).Resolve(ctx, ref)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	res := newResult(ref, key)
	if c.flagFormat != base.FormatText {
		if err := c.OutputStructured(c.flagFormat, res); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	ui.Output(fmt.Sprintf("ID:          %d", res.ID))
	if res.Udi != "" {
		ui.Output(fmt.Sprintf("UDI:         %s", res.Udi))
	} else {
		ui.Output("UDI:         (none assigned)")
	}
	ui.Output(fmt.Sprintf("Entity type: %s", res.EntityType))
	if res.Name != "" {
		ui.Output(fmt.Sprintf("Name:        %s", res.Name))
	}
	return 0
}

func parseReference(s string) (udi.Reference, error) {
	if strings.Contains(strings.ToLower(s), "locallink:") {
		return udi.ParseLocalLink(s)
	}
	return udi.ParseReference(s)
}

func newResult(ref udi.Reference, key *models.EntityKey) Result {
	res := Result{
		Reference:  ref.String(),
		ID:         key.ID,
		EntityType: key.EntityType,
		Name:       key.Name,
	}
	if key.HasUdi() {
		res.Udi = key.Udi.Udi.String()
	}
	return res
}
