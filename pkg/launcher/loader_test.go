package launcher

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeModeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestConfigLoader_ReadsWholeFile tests that an unlimited loader returns every byte
func TestConfigLoader_ReadsWholeFile(t *testing.T) {
	content := `{"dev": {"apps": ["` + strings.Repeat("a", 10000) + `"]}}`
	path := writeModeFile(t, "config.json", content)

	data, err := NewConfigLoader(0, false, quietLogger()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// TestConfigLoader_MissingFile tests the open failure path
func TestConfigLoader_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	data, err := NewConfigLoader(0, false, quietLogger()).Load(context.Background(), path)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, IsErrorCode(err, ErrorCodeConfigOpenFailed))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

// TestConfigLoader_Directory tests the read failure path
func TestConfigLoader_Directory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directories cannot be opened as files on windows")
	}
	dir := t.TempDir()

	data, err := NewConfigLoader(0, false, quietLogger()).Load(context.Background(), dir)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, IsErrorCode(err, ErrorCodeConfigReadFailed), "got %v", err)
}

// TestConfigLoader_ExactFit tests a file exactly at the cap
func TestConfigLoader_ExactFit(t *testing.T) {
	path := writeModeFile(t, "config.json", strings.Repeat("x", 16))

	data, err := NewConfigLoader(16, false, quietLogger()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, data, 16)
}

// TestConfigLoader_TooLarge tests the cap without truncation
func TestConfigLoader_TooLarge(t *testing.T) {
	path := writeModeFile(t, "config.json", strings.Repeat("x", 17))

	_, err := NewConfigLoader(16, false, quietLogger()).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, ErrorCodeConfigTooLarge))
	assert.True(t, IsFatal(err))
}

// TestConfigLoader_LegacyTruncation tests the fixed-buffer behaviour
func TestConfigLoader_LegacyTruncation(t *testing.T) {
	content := strings.Repeat("y", 5000)
	path := writeModeFile(t, "config.json", content)

	data, err := NewConfigLoader(LegacyBufferSize, true, quietLogger()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, data, LegacyBufferSize)
	assert.Equal(t, content[:LegacyBufferSize], string(data))
}

// TestConfigLoader_CancelledContext tests that nothing is opened after cancellation
func TestConfigLoader_CancelledContext(t *testing.T) {
	path := writeModeFile(t, "config.json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewConfigLoader(0, false, quietLogger()).Load(ctx, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestNewConfigLoader_NilLogger tests the default logger
func TestNewConfigLoader_NilLogger(t *testing.T) {
	loader := NewConfigLoader(0, false, nil)
	assert.NotNil(t, loader.logger)
}
