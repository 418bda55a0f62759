package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONFile(t *testing.T) {
	dir := t.TempDir()

	log := New("api", Options{Dir: dir})
	log.Info("hello")
	_ = log.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "api_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"hello"`)
	require.Contains(t, string(data), `"logger":"api"`)
}

func TestNewWithoutDir(t *testing.T) {
	log := New("api", Options{Debug: true})
	require.True(t, log.Core().Enabled(-1))
}
