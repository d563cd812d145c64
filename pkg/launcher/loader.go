package launcher

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// DefaultConfigPath is the mode file read when none is given, relative to
// the working directory.
const DefaultConfigPath = "config.json"

// LegacyBufferSize is the most a fixed 4096-byte, NUL-terminated read buffer
// could hold. Use it with truncation enabled to reproduce launchers that
// silently cut larger mode files short.
const LegacyBufferSize = 4095

// ConfigLoader reads a mode file from disk
type ConfigLoader struct {
	// MaxBytes caps how much is read; 0 reads the whole file
	MaxBytes int64

	// Truncate keeps the first MaxBytes of an oversized file instead of failing
	Truncate bool

	logger *slog.Logger
}

// NewConfigLoader creates a loader
func NewConfigLoader(maxBytes int64, truncate bool, logger *slog.Logger) *ConfigLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigLoader{
		MaxBytes: maxBytes,
		Truncate: truncate,
		logger:   logger,
	}
}

// Load returns the contents of path. It opens exactly one descriptor and
// always closes it, whether the read succeeds or not. Open and read failures
// come back as CONFIG_OPEN_FAILED and CONFIG_READ_FAILED errors carrying the
// OS error; nothing is returned to parse in either case.
func (l *ConfigLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrConfigOpenFailed(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrConfigOpenFailed(path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("close mode file", "path", path, "error", cerr)
		}
	}()

	var r io.Reader = f
	if l.MaxBytes > 0 {
		// One extra byte tells an exact fit apart from an oversized file
		r = io.LimitReader(f, l.MaxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrConfigReadFailed(path, err)
	}

	if l.MaxBytes > 0 && int64(len(data)) > l.MaxBytes {
		if !l.Truncate {
			return nil, ErrConfigTooLarge(path, l.MaxBytes)
		}
		l.logger.Warn("mode file truncated", "path", path, "max_bytes", l.MaxBytes)
		data = data[:l.MaxBytes]
	}

	l.logger.Debug("mode file read", "path", path, "bytes", len(data))

	return data, nil
}
