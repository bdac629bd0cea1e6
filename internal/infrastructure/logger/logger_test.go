package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONWithStaticFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erp.log")

	log, err := New(&Config{
		Level:  "info",
		Format: "json",
		Output: path,
		Fields: map[string]string{"app": "erp", "env": "test"},
	})
	require.NoError(t, err)

	log.Debug("dropped")
	log.Info("invoice issued")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1, "debug entries are below the configured level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "invoice issued", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "erp", entry["app"])
	assert.Equal(t, "test", entry["env"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "caller")
}

func TestNew_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erp.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	log, err := New(&Config{Output: path, Format: "json"})
	require.NoError(t, err)
	log.Warn("budget exceeded")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "previous\n"))
	assert.Contains(t, string(raw), "budget exceeded")
}

func TestNew_UnwritableOutputFails(t *testing.T) {
	_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "erp.log")})
	assert.Error(t, err)
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNew_StandardStreams(t *testing.T) {
	for _, out := range []string{"", "stdout", "STDERR"} {
		log, err := New(&Config{Output: out, Format: "console"})
		require.NoError(t, err, out)
		assert.NotNil(t, log)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		" warn ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
