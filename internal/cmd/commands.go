package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/create"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/key"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/operator"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/parse"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/resolve"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/types"
	"github.com/hashicorp-forge/udi/internal/cmd/commands/version"
)

// Commands is the mapping of all available udi commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"create": func() (cli.Command, error) {
			return &create.Command{Command: b}, nil
		},
		"key": func() (cli.Command, error) {
			return &key.Command{Command: b}, nil
		},
		"operator": func() (cli.Command, error) {
			return &operator.Command{Command: b}, nil
		},
		"operator assign-udis": func() (cli.Command, error) {
			return &operator.AssignUDIsCommand{Command: b}, nil
		},
		"operator migrate": func() (cli.Command, error) {
			return &operator.MigrateCommand{Command: b}, nil
		},
		"operator register": func() (cli.Command, error) {
			return &operator.RegisterCommand{Command: b}, nil
		},
		"parse": func() (cli.Command, error) {
			return &parse.Command{Command: b}, nil
		},
		"resolve": func() (cli.Command, error) {
			return &resolve.Command{Command: b}, nil
		},
		"types": func() (cli.Command, error) {
			return &types.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
