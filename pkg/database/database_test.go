package database

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfig_DSN(t *testing.T) {
	t.Run("postgres", func(t *testing.T) {
		cfg := Config{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "secret",
			DBName:   "udi",
		}
		assert.Equal(t,
			"host=localhost port=5432 user=postgres password=secret dbname=udi sslmode=disable",
			cfg.DSN())
	})

	t.Run("postgres with sslmode", func(t *testing.T) {
		cfg := Config{Driver: DriverPostgres, Host: "db", Port: 5432, SSLMode: "require"}
		assert.Contains(t, cfg.DSN(), "sslmode=require")
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := Config{Driver: DriverSQLite, Path: ".udi/udi.db"}
		assert.Equal(t, ".udi/udi.db", cfg.DSN())
	})
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Path: ":memory:"}, nil)
	require.NoError(t, err)

	poolStats, err := Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, poolStats.MaxOpen, "in-memory databases use a single connection")

	// Tables created on one query are visible to the next.
	require.NoError(t, db.Exec("CREATE TABLE t (id INTEGER)").Error)
	require.NoError(t, db.Exec("INSERT INTO t (id) VALUES (1)").Error)
	var count int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM t").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestConnect_PoolDefaults(t *testing.T) {
	path := t.TempDir() + "/udi.db"
	db, err := Connect(Config{Driver: DriverSQLite, Path: path}, hclog.NewNullLogger())
	require.NoError(t, err)

	poolStats, err := Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 25, poolStats.MaxOpen, "max open connections should be 25")
}

func TestConnect_PoolCustomSettings(t *testing.T) {
	path := t.TempDir() + "/udi.db"
	db, err := Connect(Config{Driver: DriverSQLite, Path: path, MaxOpenConns: 50}, nil)
	require.NoError(t, err)

	poolStats, err := Stats(db)
	require.NoError(t, err)
	assert.Equal(t, 50, poolStats.MaxOpen)
	assert.Equal(t, poolStats.Open, poolStats.InUse+poolStats.Idle, "open = in-use + idle")
}

func TestConnect_Errors(t *testing.T) {
	_, err := Connect(Config{Driver: "mysql"}, nil)
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = Connect(Config{Driver: DriverSQLite}, nil)
	assert.ErrorContains(t, err, "sqlite path is required")
}

func TestConnect_Unreachable(t *testing.T) {
	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})

	_, err := Connect(Config{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "postgres",
		DBName:         "udi",
		ConnectRetries: 1,
	}, log)
	assert.ErrorContains(t, err, "failed to connect to database")
	assert.Contains(t, buf.String(), "database not ready, retrying")
}

func TestGormLogger(t *testing.T) {
	newLogger := func(buf *bytes.Buffer) hclog.Logger {
		return hclog.New(&hclog.LoggerOptions{
			Output: buf,
			Level:  hclog.Trace,
		})
	}
	query := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("logs failed queries", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(newLogger(&buf))
		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
		assert.Contains(t, buf.String(), "database query failed")
		assert.Contains(t, buf.String(), "SELECT 1")
	})

	t.Run("ignores record not found", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(newLogger(&buf))
		l.Trace(context.Background(), time.Now(), query, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("logs slow queries", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(newLogger(&buf))
		l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
		assert.Contains(t, buf.String(), "slow database query")
	})

	t.Run("silent mode", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(newLogger(&buf)).LogMode(logger.Silent)
		l.Trace(context.Background(), time.Now(), query, errors.New("boom"))
		l.Error(context.Background(), "error")
		assert.Empty(t, buf.String())
	})

	t.Run("info mode logs every query at debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewGormLogger(newLogger(&buf)).LogMode(logger.Info)
		l.Trace(context.Background(), time.Now(), query, nil)
		assert.Contains(t, buf.String(), "database query")
	})
}
