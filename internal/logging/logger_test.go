package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandardLogger(t *testing.T) {
	logger := NewStandardLogger("info")
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger())
}

func TestStandardLogger_ContextHelpers(t *testing.T) {
	logger := NewStandardLogger("debug")

	assert.NotNil(t, logger.WithService("fightline"))
	assert.NotNil(t, logger.WithComponent("analytics"))
	assert.NotNil(t, logger.WithOperation("consensus"))
	assert.NotNil(t, logger.WithFight("ufc-300-main"))
	assert.NotNil(t, logger.WithSportsbook("draftkings"))
	assert.NotNil(t, logger.WithError(errors.New("boom")))
}

func TestGetSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, getSlogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, getSlogLevel("warn"))
	assert.Equal(t, slog.LevelWarn, getSlogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, getSlogLevel("error"))
	assert.Equal(t, slog.LevelInfo, getSlogLevel("info"))
	assert.Equal(t, slog.LevelInfo, getSlogLevel("unknown"))
}

func TestParseLogrusLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogrusLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogrusLevel("Warning"))
	assert.Equal(t, logrus.ErrorLevel, ParseLogrusLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLogrusLevel(""))
}
