package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(NewHandler(buf, Options{Level: level, NoColor: true})), buf
}

func TestHandlerFormatsCommandLine(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.Info("Command completed",
		slog.String("type", "cmd"),
		slog.String("name", "stats"),
		slog.String("user_name", "alice"),
		slog.String("status", "success"),
		slog.Int("results", 3),
	)

	out := buf.String()
	assert.Contains(t, out, "[Wordle]")
	assert.Contains(t, out, "[INFO] [CMD] Command completed [stats by alice] [Status: success] results=3")
}

func TestHandlerErrorDetails(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.Error("Query failed", slog.String("type", "db"), slog.Any("error", errors.New("boom")))

	assert.Contains(t, buf.String(), "[ERROR] [DB] Query failed: boom")
}

func TestHandlerLevelAndSkips(t *testing.T) {
	log, buf := newTestLogger(slog.LevelInfo)

	log.Debug("hidden")
	log.Info("sending heartbeat")
	assert.Empty(t, buf.String())

	log.With(slog.String("type", "sys")).Warn("slow start")
	assert.Contains(t, buf.String(), "[WARN] [SYS] slow start")
}

func TestQueryLoggerUsesDefaultLogger(t *testing.T) {
	log, buf := newTestLogger(slog.LevelDebug)
	prev := slog.Default()
	slog.SetDefault(log)
	t.Cleanup(func() { slog.SetDefault(prev) })

	NewQueryLogger("exec", "TRUNCATE TABLE wordle_results").Log(nil, 4)
	assert.Contains(t, buf.String(), "[DEBUG] [DB] Query executed")
	assert.Contains(t, buf.String(), "affected_rows=4")

	buf.Reset()
	NewQueryLogger("query", "SELECT user_id FROM wordle_stats").Log(errors.New("boom"), 0)
	assert.Contains(t, buf.String(), "[ERROR] [DB] Query failed: boom")
}
