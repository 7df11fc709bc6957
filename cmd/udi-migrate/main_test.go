package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "udi.db")

	assert.Equal(t, 0, run([]string{"-driver=sqlite", "-dsn=" + dsn, "-version"}))
	assert.Equal(t, 0, run([]string{"-driver=sqlite", "-dsn=" + dsn}))
	assert.Equal(t, 0, run([]string{"-driver=sqlite", "-dsn=" + dsn}), "migrating twice is a no-op")
	assert.Equal(t, 0, run([]string{"-driver=sqlite", "-dsn=" + dsn, "-down=2"}))
}

func TestRun_Errors(t *testing.T) {
	assert.Equal(t, 1, run(nil), "dsn is required")
	assert.Equal(t, 1, run([]string{"-driver=mysql", "-dsn=x"}))
	assert.Equal(t, 2, run([]string{"-nope"}))
	assert.Equal(t, 0, run([]string{"-help"}))
}
