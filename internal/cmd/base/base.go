// Package base holds what every udi subcommand shares: the logger, the UI
// and helpers for loading configuration and opening the database.
package base

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/internal/config"
	"github.com/hashicorp-forge/udi/pkg/database"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// FS is the filesystem configuration files are read from.
	FS afero.Fs

	// Ctx is the parent of the context commands run under. Defaults to
	// context.Background().
	Ctx context.Context
}

// NewCommand returns a base command that reads from the OS filesystem.
func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		FS:  afero.NewOsFs(),
	}
}

func (c *Command) fs() afero.Fs {
	if c.FS == nil {
		return afero.NewOsFs()
	}
	return c.FS
}

// SignalContext returns a context that is canceled on interrupt. The caller
// must call the returned stop function.
func (c *Command) SignalContext() (context.Context, context.CancelFunc) {
	parent := c.Ctx
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

// LoadConfig parses the HCL config file at path and applies its log level.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.NewConfig(c.fs(), path)
	if err != nil {
		return nil, err
	}
	if c.Log != nil {
		c.Log.SetLevel(cfg.HCLogLevel())
	}
	return cfg, nil
}

// Registry returns the entity type registry. With no config path it holds
// only the built-in entity types.
func (c *Command) Registry(configPath string) (*udi.Registry, error) {
	if configPath == "" {
		return udi.NewDefaultRegistry(), nil
	}
	cfg, err := c.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return cfg.Registry()
}

// OpenDatabase connects to the database configured in cfg.
func (c *Command) OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	dbCfg, err := cfg.DatabaseConfig()
	if err != nil {
		return nil, err
	}
	return database.Connect(dbCfg, c.Log)
}
