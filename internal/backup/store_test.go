package backup

import (
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wifibear/macbear/internal/macerr"
)

type fakeLive map[string]string

func (f fakeLive) CurrentMAC(iface string) (net.HardwareAddr, bool) {
	v, ok := f[iface]
	if !ok {
		return nil, false
	}
	mac, err := net.ParseMAC(v)
	return mac, err == nil
}

func TestEnsureIsIdempotent(t *testing.T) {
	live := fakeLive{"eth0": "aa:bb:cc:dd:ee:01"}
	kv := NewMemStore()
	s := NewStore(kv, live, zerolog.Nop())

	created, err := s.Ensure("eth0")
	require.NoError(t, err)
	assert.True(t, created)

	// the live address changes, the first original is kept
	live["eth0"] = "11:22:33:44:55:66"
	created, err = s.Ensure("eth0")
	require.NoError(t, err)
	assert.False(t, created)

	mac, ok, err := s.Read("eth0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", mac.String())
	assert.Equal(t, 1, kv.Puts())
}

func TestEnsureUnreadableCurrent(t *testing.T) {
	kv := NewMemStore()
	s := NewStore(kv, fakeLive{}, zerolog.Nop())

	_, err := s.Ensure("eth0")
	assert.True(t, macerr.Is(err, macerr.BackupUnavailable))
	assert.Zero(t, kv.Puts())
}

func TestReadMissing(t *testing.T) {
	s := NewStore(NewMemStore(), fakeLive{}, zerolog.Nop())

	mac, ok, err := s.Read("eth0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, mac)
}

func TestReadCorrupt(t *testing.T) {
	kv := NewMemStore()
	require.NoError(t, kv.Put("eth0", "not-a-mac"))
	s := NewStore(kv, fakeLive{}, zerolog.Nop())

	_, _, err := s.Read("eth0")
	require.Error(t, err)
	assert.True(t, macerr.Is(err, macerr.BackupUnavailable))
	assert.Equal(t, macerr.ExitRestoreFailure, macerr.ExitCode(err, macerr.OpRestore))
}

func TestFileStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "macchanger")
	fs := NewFileStore(dir)

	require.NoError(t, fs.Put("wlan0", "aa:bb:cc:dd:ee:02"))

	data, err := os.ReadFile(filepath.Join(dir, "wlan0.orig"))
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:02\n", string(data))

	di, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), di.Mode().Perm())

	fi, err := os.Stat(fs.Path("wlan0"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	v, ok, err := fs.Get("wlan0")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "aa:bb:cc:dd:ee:02", v)
}

func TestFileStoreNeverOverwrites(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	require.NoError(t, fs.Put("eth0", "aa:bb:cc:dd:ee:01"))
	assert.ErrorIs(t, fs.Put("eth0", "11:22:33:44:55:66"), ErrExists)

	v, _, err := fs.Get("eth0")
	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:01", v)
}

func TestFileStoreTightensExistingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "loose")
	require.NoError(t, os.Mkdir(dir, 0o755))

	require.NoError(t, NewFileStore(dir).Put("eth0", "aa:bb:cc:dd:ee:01"))

	di, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), di.Mode().Perm())
}

func TestFileStoreUnavailable(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o600))
	fs := NewFileStore(filepath.Join(parent, "backups"))

	err := fs.Put("eth0", "aa:bb:cc:dd:ee:01")
	assert.True(t, macerr.Is(err, macerr.StorageUnavailable))
}

func TestFileStoreMissingDirIsAbsent(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "never-created"))

	_, ok, err := fs.Get("eth0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysAreInterfaceNames(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	for _, key := range []string{"", ".", "..", "../etc/passwd", "a/b"} {
		assert.True(t, macerr.Is(fs.Put(key, "aa:bb:cc:dd:ee:01"), macerr.InterfaceNotFound), "key %q", key)
		_, _, err := fs.Get(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestDefaultDir(t *testing.T) {
	assert.Equal(t, DefaultDir, NewFileStore("").Dir())
}
