// Package store persists small pieces of local state (bookmarks, the user
// profile) under named keys.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"coursereview/internal/errors"
)

// KV reads and writes values under named keys. Get reports found=false when
// the key was never written.
type KV interface {
	Get(key string, out any) (found bool, err error)
	Set(key string, value any) error
}

/* -------- FileKV -------- */

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// FileKV keeps every key in one YAML document on disk. Writes go to a temp
// file that is renamed over the original.
type FileKV struct {
	path string
	mu   sync.Mutex
}

var _ KV = (*FileKV)(nil)

func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file.
func (f *FileKV) Path() string { return f.path }

func (f *FileKV) Get(key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return false, err
	}
	val, ok := doc[key]
	if !ok {
		return false, nil
	}
	if err := convert(val, out); err != nil {
		return false, fmt.Errorf("decoding %q from %s: %w", key, f.path, err)
	}
	return true, nil
}

func (f *FileKV) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	doc[key] = value

	data, err := yaml.MarshalWithOptions(doc, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	return f.write(data)
}

func (f *FileKV) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", f.path, err)
	}

	doc := map[string]any{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (f *FileKV) write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return errors.WrapIO("write", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return errors.WrapIO("write", f.path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("write", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return errors.WrapIO("write", f.path, err)
	}
	return nil
}

/* -------- MemoryKV -------- */

// MemoryKV is an in-process KV. Values are stored encoded, so callers never
// share memory with the store.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ KV = (*MemoryKV)(nil)

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(key string, out any) (bool, error) {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

func (m *MemoryKV) Set(key string, value any) error {
	raw, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

// convert moves a generic decoded value into a typed destination.
func convert(val, out any) error {
	raw, err := yaml.Marshal(val)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}
