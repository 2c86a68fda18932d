// Package cache memoizes per-file analysis reports keyed by source content.
// Entries live in a versioned directory so a schema change never reads stale
// report shapes, and expire after MaxAge so the cache cannot grow unbounded.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// schemaVersion names the on-disk layout. Bump it when the cached report
// format changes; old entries are simply orphaned under the previous dir.
const schemaVersion = "v1"

// MaxAge is how long an entry stays valid. Load removes anything older.
const MaxAge = 7 * 24 * time.Hour

// DirEnv overrides the cache location, mainly for tests and CI sandboxes.
const DirEnv = "AUDITYZER_CACHE_DIR"

// Dir returns the cache directory path, creating it if needed.
func Dir() (string, error) {
	base := os.Getenv(DirEnv)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".audityzer", "cache")
	}
	dir := filepath.Join(base, schemaVersion)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Key hashes its parts into an entry filename. Parts are length-delimited so
// adjacent inputs cannot collide by concatenation.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Load returns the entry for key if it exists and is fresh. Entries older
// than MaxAge are deleted and reported as misses.
func Load(key string) ([]byte, bool) {
	dir, err := Dir()
	if err != nil {
		return nil, false
	}
	path := filepath.Join(dir, key)
	st, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(st.ModTime()) > MaxAge {
		_ = os.Remove(path)
		return nil, false
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Store writes an entry. The cache is best effort; callers may ignore the
// error.
func Store(key string, data []byte) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, key), data, 0o644)
}
