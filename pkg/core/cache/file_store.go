package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdwerror "github.com/msto63/fmwkit/foundation/core/error"
)

const fileExt = ".json"

// FileStore keeps each document in its own JSON file, named after the key,
// below a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store on it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create cache directory").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("dir", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file a key is stored in.
func (s *FileStore) Path(key Key) string {
	return filepath.Join(s.dir, key.String()+fileExt)
}

func (s *FileStore) Get(_ context.Context, key Key, out any) (bool, error) {
	if err := key.validate(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, mdwerror.Wrap(err, "read cache file").
			WithCode(mdwerror.CodeStorageError).
			WithDetail("key", key.String())
	}
	return true, decode(key, data, out)
}

// Put writes the document to a temporary file and renames it into place.
func (s *FileStore) Put(_ context.Context, key Key, v any) error {
	if err := key.validate(); err != nil {
		return err
	}
	data, err := encode(key, v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key.String()+"-*")
	if err != nil {
		return mdwerror.Wrap(err, "create cache file").WithCode(mdwerror.CodeStorageError)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return mdwerror.Wrap(err, "write cache file").WithCode(mdwerror.CodeStorageError)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return mdwerror.Wrap(err, "close cache file").WithCode(mdwerror.CodeStorageError)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		os.Remove(tmp.Name())
		return mdwerror.Wrap(err, "rename cache file").WithCode(mdwerror.CodeStorageError)
	}
	return nil
}

// Prune removes files whose key day lies before the date of before. Files
// that do not look like cache documents are left alone.
func (s *FileStore) Prune(ctx context.Context, before time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, mdwerror.Wrap(err, "list cache directory").WithCode(mdwerror.CodeStorageError)
	}

	removed := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		key, err := ParseKey(strings.TrimSuffix(name, fileExt))
		if err != nil || !key.dayBefore(before) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, mdwerror.Wrap(err, "remove cache file").
				WithCode(mdwerror.CodeStorageError).
				WithDetail("file", name)
		}
		removed++
	}
	return removed, nil
}
