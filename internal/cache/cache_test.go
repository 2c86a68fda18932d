package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStoreLoadRoundTrip(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	key := Key("report-v1", "contract A {}", "standard")
	require.NoError(t, Store(key, []byte(`{"totalLines":1}`)))

	got, ok := Load(key)
	require.True(t, ok)
	require.Equal(t, `{"totalLines":1}`, string(got))

	_, ok = Load(Key("report-v1", "contract B {}", "standard"))
	require.False(t, ok)
}

func TestKeyDistinguishesParts(t *testing.T) {
	require.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	require.NotEqual(t, Key("source", "extra"), Key("source", "standard"))
	require.Equal(t, Key("source", "extra"), Key("source", "extra"))
}

func TestLoadExpiresStaleEntries(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	key := Key("stale")
	require.NoError(t, Store(key, []byte("old")))

	dir, err := Dir()
	require.NoError(t, err)
	path := filepath.Join(dir, key)
	past := time.Now().Add(-MaxAge - time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	_, ok := Load(key)
	require.False(t, ok)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestDirHonorsOverride(t *testing.T) {
	base := t.TempDir()
	t.Setenv(DirEnv, base)

	dir, err := Dir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, schemaVersion), dir)
}
