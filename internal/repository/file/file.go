// Package file stores each key as a JSON file inside a data directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/and161185/veriuser/internal/errs"
)

// KV is a directory of <key>.json files.
type KV struct{ dir string }

// New constructs a store rooted at dir. The directory is created on first save.
func New(dir string) *KV { return &KV{dir: dir} }

// Dir returns the data directory.
func (k *KV) Dir() string { return k.dir }

func (k *KV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("validation: bad key %q", key)
	}
	return filepath.Join(k.dir, key+".json"), nil
}

// Load reads the file for key.
func (k *KV) Load(_ context.Context, key string) ([]byte, error) {
	p, err := k.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return b, nil
}

// Save writes data to a temp file and renames it over the key's file,
// so readers never observe a half-written blob.
func (k *KV) Save(_ context.Context, key string, data []byte) error {
	p, err := k.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(k.dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(k.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename to %s: %w", p, err)
	}
	return nil
}
