package logrus

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_ForwardsFields(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := Wrap(base)

	logger.Info("Fetching listing", map[string]interface{}{"listing_id": "123"})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Fetching listing", entry.Message)
	assert.Equal(t, "123", entry.Data["listing_id"])
}

func TestLogger_Levels(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := Wrap(base)

	logger.Debug("d", nil)
	logger.Info("i", nil)
	logger.Warn("w", nil)
	logger.Error("e", map[string]interface{}{"error": "boom"})

	require.Len(t, hook.Entries, 4)
	assert.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
	assert.Equal(t, logrus.InfoLevel, hook.Entries[1].Level)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[2].Level)
	assert.Equal(t, logrus.ErrorLevel, hook.Entries[3].Level)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNew_Options(t *testing.T) {
	l := New(Options{Level: "warn", Format: "json"})
	assert.Equal(t, logrus.WarnLevel, l.entry.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.entry.Formatter)

	l = New(Options{Format: "text", File: filepath.Join(t.TempDir(), "app.log")})
	assert.IsType(t, &logrus.TextFormatter{}, l.entry.Formatter)
	assert.NotPanics(t, func() { l.Info("written to file", nil) })
}
