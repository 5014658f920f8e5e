package kv

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Dir stores each key as a file below a root directory. Writes are atomic:
// data is written to a temp file in the destination directory and then
// renamed into place.
type Dir struct {
	root string
}

// NewDir creates a Dir backend rooted at root. Subdirectories are created
// lazily on first write.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

func (d *Dir) keyPath(key string) string {
	return filepath.Join(d.root, filepath.FromSlash(key))
}

func (d *Dir) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(d.keyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

func (d *Dir) Put(key string, value []byte) error {
	dest := d.keyPath(key)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("put %s: mkdir: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("put %s: tmpfile: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("put %s: write: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("put %s: close: %w", key, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("put %s: rename: %w", key, err)
	}
	return nil
}

func (d *Dir) Has(key string) (bool, error) {
	info, err := os.Stat(d.keyPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("has %s: %w", key, err)
	}
	return !info.IsDir(), nil
}

func (d *Dir) Delete(key string) error {
	if err := os.Remove(d.keyPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (d *Dir) List(prefix string) ([]string, error) {
	dirPart, namePrefix := path.Split(prefix)
	entries, err := os.ReadDir(d.keyPath(dirPart))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		if strings.HasPrefix(name, namePrefix) {
			keys = append(keys, dirPart+name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; Dir holds no open handles.
func (d *Dir) Close() error { return nil }
