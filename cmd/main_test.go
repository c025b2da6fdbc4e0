package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Run("local is verbose text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := setupLogger(envLocal, &buf)

		logger.Debug("clinic lookup", "lat", 28.6)

		assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
		assert.Contains(t, buf.String(), `msg="clinic lookup"`)
		assert.Contains(t, buf.String(), "source=")
		assert.Contains(t, buf.String(), "time=")
	})

	t.Run("development is info json with time", func(t *testing.T) {
		var buf bytes.Buffer
		logger := setupLogger(envDev, &buf)

		logger.Info("started")

		assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "started", entry["msg"])
		assert.Contains(t, entry, "time")
	})

	t.Run("production drops time", func(t *testing.T) {
		var buf bytes.Buffer
		logger := setupLogger(envProd, &buf)

		logger.Info("ignored")
		logger.Warn("fallback served")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "fallback served", entry["msg"])
		assert.NotContains(t, entry, "time")
	})

	t.Run("unknown env reports itself", func(t *testing.T) {
		var buf bytes.Buffer
		logger := setupLogger("staging", &buf)

		assert.False(t, logger.Enabled(context.Background(), slog.LevelWarn))
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t,
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			entry["msg"])
		assert.Equal(t, "staging", entry["env"])
		assert.False(t, strings.Contains(buf.String(), `\t`))
	})
}

func TestHealthChecks(t *testing.T) {
	calls := 0
	ok := pingFunc(func(context.Context) error { calls++; return nil })
	failing := pingFunc(func(context.Context) error { return assert.AnError })

	require.NoError(t, healthChecks{ok, ok}.Ping(t.Context()))
	assert.Equal(t, 2, calls)

	require.ErrorIs(t, healthChecks{ok, failing, ok}.Ping(t.Context()), assert.AnError)
	assert.Equal(t, 3, calls)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
