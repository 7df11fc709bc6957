package cmd

import (
	"strings"
	"testing"

	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"

	"github.com/hashicorp-forge/udi/internal/version"
)

func TestRun_Version(t *testing.T) {
	for _, args := range [][]string{
		{"udi", "version"},
		{"udi", "-version"},
		{"udi", "-v"},
	} {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			ui := cli.NewMockUi()
			assert.Equal(t, 0, run(args, ui))
			assert.Equal(t, version.Version+"\n", ui.OutputWriter.String())
		})
	}
}

func TestRun_Subcommands(t *testing.T) {
	ui := cli.NewMockUi()
	code := run([]string{"udi", "parse", "umb://document"}, ui)
	assert.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "entity type: document")

	ui = cli.NewMockUi()
	code = run([]string{"udi", "key", "umb://element/0cfa8757f1c1413c94e9f8a27e0b2a9f"}, ui)
	assert.Equal(t, 0, code)
	assert.Equal(t, "0cfa8757-f1c1-413c-94e9-f8a27e0b2a9f\n", ui.OutputWriter.String())
}

func TestCommands_Registered(t *testing.T) {
	initCommands(nil, cli.NewMockUi())

	for _, name := range []string{
		"create", "key", "operator", "operator assign-udis", "operator migrate",
		"operator register", "parse", "resolve", "types", "version",
	} {
		factory, ok := Commands[name]
		if assert.True(t, ok, name) {
			c, err := factory()
			assert.NoError(t, err)
			assert.NotEmpty(t, c.Synopsis(), name)
			assert.NotEmpty(t, c.Help(), name)
		}
	}
}
