package operator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hashicorp-forge/udi/internal/cmd/base"
	"github.com/hashicorp-forge/udi/pkg/database"
	"github.com/hashicorp-forge/udi/pkg/models"
	"github.com/hashicorp-forge/udi/pkg/udi"
)

const configTemplate = `
log_level = "error"

database {
  driver = "sqlite"
  path   = %q
}

entity_type "blog-post" {}
`

type env struct {
	base   *base.Command
	ui     *cli.MockUi
	dbPath string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "udi.db")
	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.FS = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(b.FS, "udi.hcl", []byte(fmt.Sprintf(configTemplate, dbPath)), 0o644))

	return &env{base: b, ui: ui, dbPath: dbPath}
}

// open connects to the test database outside of any command.
func (e *env) open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Path: e.dbPath}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func (e *env) migrate(t *testing.T) {
	t.Helper()
	c := &MigrateCommand{Command: e.base}
	require.Equal(t, 0, c.Run([]string{"-config=udi.hcl"}), e.ui.ErrorWriter.String())
}

func sequentialFactory() *udi.Factory {
	n := 0
	return udi.NewFactory(udi.GeneratorFunc(func() string {
		n++
		return fmt.Sprintf("%032x", n)
	}))
}

func TestMigrateCommand(t *testing.T) {
	e := newEnv(t)
	e.migrate(t)

	assert.Contains(t, e.ui.OutputWriter.String(), "Database schema at version 2")
	assert.Contains(t, e.ui.OutputWriter.String(),
		fmt.Sprintf("Synced %d entity types", len(udi.DefaultEntityTypes())+1))

	db := e.open(t)
	records, err := models.GetAllEntityTypeRecords(db)
	require.NoError(t, err)
	assert.Len(t, records, len(udi.DefaultEntityTypes())+1)

	var custom models.EntityTypeRecord
	require.NoError(t, custom.GetByName(db, "blog-post"))
	assert.Equal(t, models.EntityTypeSourceHCLFile, custom.SourceType)

	t.Run("idempotent", func(t *testing.T) {
		e.migrate(t)
	})
}

func TestRegisterCommand(t *testing.T) {
	e := newEnv(t)
	e.migrate(t)

	c := &RegisterCommand{Command: e.base, Factory: sequentialFactory()}
	e.ui.OutputWriter.Reset()

	require.Equal(t, 0, c.Run([]string{"-config=udi.hcl", "blog-post", "Hello"}), e.ui.ErrorWriter.String())
	assert.Equal(t, "umb://blog-post/00000000000000000000000000000001\n", e.ui.OutputWriter.String())

	var key models.EntityKey
	require.NoError(t, key.GetByUdi(e.open(t), udi.MustParse("umb://blog-post/00000000000000000000000000000001")))
	assert.Equal(t, "Hello", key.Name)

	t.Run("rejects string kinds", func(t *testing.T) {
		assert.Equal(t, 1, c.Run([]string{"-config=udi.hcl", "stylesheet"}))
		assert.Contains(t, e.ui.ErrorWriter.String(), "cannot be minted")
	})

	t.Run("requires an entity type", func(t *testing.T) {
		assert.Equal(t, 1, c.Run([]string{"-config=udi.hcl"}))
	})
}

func TestAssignUDIsCommand(t *testing.T) {
	seed := func(t *testing.T, e *env) {
		db := e.open(t)
		for i := 0; i < 3; i++ {
			require.NoError(t, (&models.EntityKey{EntityType: udi.EntityTypeDocument}).Create(db))
		}
		require.NoError(t, (&models.EntityKey{EntityType: "blog-post"}).Create(db))
		require.NoError(t, (&models.EntityKey{EntityType: udi.EntityTypeScript}).Create(db))
	}

	t.Run("assigns", func(t *testing.T) {
		e := newEnv(t)
		e.migrate(t)
		seed(t, e)

		c := &AssignUDIsCommand{Command: e.base, Factory: sequentialFactory()}
		require.Equal(t, 0, c.Run([]string{"-config=udi.hcl", "-batch-size=2"}), e.ui.ErrorWriter.String())

		out := e.ui.OutputWriter.String()
		assert.Contains(t, out, "Entity keys without UDIs: 5")
		assert.Contains(t, out, "UDIs assigned: 4")
		assert.Contains(t, e.ui.ErrorWriter.String(), "Skipped: 1")

		db := e.open(t)
		remaining, err := models.CountEntityKeysWithoutUdi(db)
		require.NoError(t, err)
		assert.Equal(t, int64(1), remaining)

		posts, err := models.GetEntityKeysByType(db, "blog-post")
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.True(t, strings.HasPrefix(posts[0].Udi.Udi.String(), "umb://blog-post/"))
	})

	t.Run("dry run", func(t *testing.T) {
		e := newEnv(t)
		e.migrate(t)
		seed(t, e)

		c := &AssignUDIsCommand{Command: e.base}
		require.Equal(t, 0, c.Run([]string{"-config=udi.hcl", "-dry-run"}), e.ui.ErrorWriter.String())
		assert.Contains(t, e.ui.OutputWriter.String(), "Would assign UDIs to: 4 entity keys")
		assert.Contains(t, e.ui.ErrorWriter.String(), "DRY RUN completed")

		remaining, err := models.CountEntityKeysWithoutUdi(e.open(t))
		require.NoError(t, err)
		assert.Equal(t, int64(5), remaining)
	})

	t.Run("nothing to do", func(t *testing.T) {
		e := newEnv(t)
		e.migrate(t)

		c := &AssignUDIsCommand{Command: e.base}
		require.Equal(t, 0, c.Run([]string{"-config=udi.hcl"}))
		assert.Contains(t, e.ui.OutputWriter.String(), "All entity keys already have UDIs assigned")
	})

	t.Run("verbose reports pool", func(t *testing.T) {
		e := newEnv(t)
		e.migrate(t)
		seed(t, e)

		c := &AssignUDIsCommand{Command: e.base, Factory: sequentialFactory()}
		require.Equal(t, 0, c.Run([]string{"-config=udi.hcl", "-verbose"}), e.ui.ErrorWriter.String())
		assert.Contains(t, e.ui.OutputWriter.String(), "Connection pool: open=")
	})

	t.Run("stops when canceled", func(t *testing.T) {
		e := newEnv(t)
		e.migrate(t)
		seed(t, e)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e.base.Ctx = ctx

		c := &AssignUDIsCommand{Command: e.base}
		assert.Equal(t, 1, c.Run([]string{"-config=udi.hcl"}))
		assert.Contains(t, e.ui.ErrorWriter.String(), "context canceled")

		remaining, err := models.CountEntityKeysWithoutUdi(e.open(t))
		require.NoError(t, err)
		assert.Equal(t, int64(5), remaining)
	})

	t.Run("flag errors", func(t *testing.T) {
		e := newEnv(t)
		c := &AssignUDIsCommand{Command: e.base}

		assert.Equal(t, 1, c.Run(nil))
		assert.Contains(t, e.ui.ErrorWriter.String(), "config flag is required")

		assert.Equal(t, 1, c.Run([]string{"-config=udi.hcl", "-batch-size=0"}))
		assert.Contains(t, e.ui.ErrorWriter.String(), "batch-size must be at least 1")
	})
}

func TestOperatorCommand(t *testing.T) {
	c := &Command{Command: base.NewCommand(hclog.NewNullLogger(), cli.NewMockUi())}
	assert.Equal(t, cli.RunResultHelp, c.Run(nil))
}
