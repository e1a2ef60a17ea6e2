package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wifibear/macbear/internal/macerr"
)

// DefaultDir is where original addresses are kept, one file per interface.
const DefaultDir = "/var/lib/macchanger"

const (
	dirMode  fs.FileMode = 0o700
	fileMode fs.FileMode = 0o600
	fileExt              = ".orig"
)

// ErrExists is returned by Put when the key already holds a value.
var ErrExists = errors.New("record already exists")

// KeyValueStore holds one value per key. Put never overwrites.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
}

// FileStore keeps each value in <dir>/<key>.orig, readable by root only.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileStore{dir: dir}
}

// Dir returns the backup directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file holding key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, macerr.Wrap(err, macerr.StorageUnavailable, "read %s", s.Path(key))
	}
	return strings.TrimSpace(string(data)), true, nil
}

func (s *FileStore) Put(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := s.ensureDir(); err != nil {
		return err
	}

	path := s.Path(key)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if errors.Is(err, fs.ErrExist) {
		return ErrExists
	}
	if err != nil {
		return macerr.Wrap(err, macerr.StorageUnavailable, "create %s", path)
	}

	_, werr := f.WriteString(value + "\n")
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return macerr.Wrap(errors.Join(werr, cerr), macerr.StorageUnavailable, "write %s", path)
	}
	// OpenFile's mode is filtered through the umask
	if err := os.Chmod(path, fileMode); err != nil {
		return macerr.Wrap(err, macerr.StorageUnavailable, "chmod %s", path)
	}
	return nil
}

func (s *FileStore) ensureDir() error {
	if err := os.MkdirAll(s.dir, dirMode); err != nil {
		return macerr.Wrap(err, macerr.StorageUnavailable, "create backup directory %s", s.dir)
	}
	if err := os.Chmod(s.dir, dirMode); err != nil {
		return macerr.Wrap(err, macerr.StorageUnavailable, "chmod backup directory %s", s.dir)
	}
	return nil
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return macerr.New(macerr.InterfaceNotFound, "invalid interface name %q", key)
	}
	return nil
}

// MemStore is an in-memory KeyValueStore.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
	puts   int
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemStore) Put(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return ErrExists
	}
	m.values[key] = value
	m.puts++
	return nil
}

// Puts returns how many values have been written.
func (m *MemStore) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
