package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dom/weather-gate/internal/domain"
)

// FileStore keeps the mapping as a JSON object in a single file.
type FileStore[V any] struct {
	path string
}

// OpenFile returns a store backed by path, creating it with an empty mapping
// when it does not exist yet.
func OpenFile[V any](path string) (*FileStore[V], error) {
	s := &FileStore[V]{path: path}

	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.Save(context.Background(), map[string]V{}); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("%w: stat %s: %v", domain.ErrStorageIO, path, err)
	}

	return s, nil
}

func (s *FileStore[V]) Load(ctx context.Context) (map[string]V, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStorageIO, s.path, err)
	}

	var records map[string]V
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrStorageIO, s.path, err)
	}
	if records == nil {
		records = make(map[string]V)
	}

	return records, nil
}

// Save writes to a temp file next to the target and renames it into place.
func (s *FileStore[V]) Save(ctx context.Context, records map[string]V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorageIO, s.path, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", domain.ErrStorageIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp for %s: %v", domain.ErrStorageIO, s.path, err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageIO, tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename %s: %v", domain.ErrStorageIO, s.path, err)
	}

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
