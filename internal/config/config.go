package config

import (
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"

	"github.com/hashicorp-forge/udi/pkg/database"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

// Config contains the configuration for the udi tools.
type Config struct {
	// LogLevel is the level of the hclog logger ("trace", "debug", "info",
	// "warn", "error"). Defaults to "info".
	LogLevel string `hcl:"log_level,optional"`

	// Database configures the entity key store.
	Database *Database `hcl:"database,block"`

	// EntityTypes declares entity types in addition to the built-in ones.
	EntityTypes []*EntityType `hcl:"entity_type,block"`
}

// Database configures the database connection.
type Database struct {
	// Driver is "postgres" or "sqlite".
	Driver string `hcl:"driver,optional"`

	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`

	MaxIdleConns int `hcl:"max_idle_conns,optional"`
	MaxOpenConns int `hcl:"max_open_conns,optional"`

	// ConnectRetries is how many times to retry an unreachable database at
	// startup.
	ConnectRetries int `hcl:"connect_retries,optional"`
}

// EntityType declares a custom entity type.
type EntityType struct {
	Name        string `hcl:"name,label"`
	Kind        string `hcl:"kind,optional"`
	Description string `hcl:"description,optional"`
}

// NewConfig parses an HCL configuration file read from fs.
// Environment variables are available to the file as env.NAME.
func NewConfig(fs afero.Fs, filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	src, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return Decode(filename, src, environ())
}

// Decode parses HCL (or HCL JSON, by file extension) configuration from src.
func Decode(filename string, src []byte, env map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := hclsimple.Decode(filename, src, evalContext(env), cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database != nil {
		if c.Database.Driver == "" {
			c.Database.Driver = database.DriverPostgres
		}
		if c.Database.Driver == database.DriverPostgres && c.Database.Port == 0 {
			c.Database.Port = 5432
		}
	}
	for _, et := range c.EntityTypes {
		if et.Kind == "" {
			et.Kind = udi.KindGUID.String()
		}
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel,
			validation.Required,
			validation.In("trace", "debug", "info", "warn", "error"),
		),
	); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Database != nil {
		if err := c.Database.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("database: %w", err))
		}
	}

	seen := make(map[string]bool)
	for _, et := range c.EntityTypes {
		def := et.Definition()
		if err := def.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("entity_type %q: %w", et.Name, err))
			continue
		}
		if seen[def.Name] {
			result = multierror.Append(result, fmt.Errorf("entity_type %q: declared more than once", et.Name))
		}
		seen[def.Name] = true
	}

	return result.ErrorOrNil()
}

// Validate checks the database block.
func (d *Database) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Driver,
			validation.Required,
			validation.In(database.DriverPostgres, database.DriverSQLite),
		),
		validation.Field(&d.Host,
			validation.When(d.Driver == database.DriverPostgres, validation.Required)),
		validation.Field(&d.DBName,
			validation.When(d.Driver == database.DriverPostgres, validation.Required)),
		validation.Field(&d.Port, validation.Min(0), validation.Max(65535)),
		validation.Field(&d.ConnectRetries, validation.Min(0)),
		validation.Field(&d.Path,
			validation.When(d.Driver == database.DriverSQLite, validation.Required)),
	)
}

// Definition converts the block to a registry definition.
func (et *EntityType) Definition() udi.EntityType {
	return udi.EntityType{
		Name:        udi.NormalizeEntityTypeName(et.Name),
		Kind:        udi.Kind(et.Kind),
		Description: et.Description,
	}
}

// DatabaseConfig returns the connection settings for pkg/database.
func (c *Config) DatabaseConfig() (database.Config, error) {
	if c.Database == nil {
		return database.Config{}, fmt.Errorf("config has no database block")
	}
	d := c.Database
	return database.Config{
		Driver:       d.Driver,
		Host:         d.Host,
		Port:         d.Port,
		User:         d.User,
		Password:     d.Password,
		DBName:       d.DBName,
		SSLMode:      d.SSLMode,
		Path:         d.Path,
		MaxIdleConns: d.MaxIdleConns,
		MaxOpenConns: d.MaxOpenConns,

		ConnectRetries: d.ConnectRetries,
	}, nil
}

// CustomEntityTypes returns the registry definitions declared in the file.
func (c *Config) CustomEntityTypes() []udi.EntityType {
	defs := make([]udi.EntityType, 0, len(c.EntityTypes))
	for _, et := range c.EntityTypes {
		defs = append(defs, et.Definition())
	}
	return defs
}

// Registry returns the built-in entity types plus the custom ones.
func (c *Config) Registry() (*udi.Registry, error) {
	reg := udi.NewDefaultRegistry()
	if err := reg.Populate(c.CustomEntityTypes()...); err != nil {
		return nil, fmt.Errorf("error registering entity types: %w", err)
	}
	return reg, nil
}

// HCLogLevel returns the configured level for hclog.
func (c *Config) HCLogLevel() hclog.Level {
	return hclog.LevelFromString(c.LogLevel)
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envVal,
		},
	}
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
