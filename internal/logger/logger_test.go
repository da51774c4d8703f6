package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bizcrm.log")

	l, err := New("debug", "json", path)
	require.NoError(t, err)
	l.Info("intake opened")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "intake opened")
}

func TestNewWithoutPathIsSilent(t *testing.T) {
	l, err := New("info", "console", "")
	require.NoError(t, err)
	assert.NotNil(t, l)
	l.Info("dropped")
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizcrm.log")

	l, err := New("error", "json", path)
	require.NoError(t, err)
	l.Info("too chatty")
	l.Error("lookup failed")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "too chatty")
	assert.Contains(t, string(data), "lookup failed")
}
