package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore reads artifacts from a local directory.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Fetch reads the artifact at key, relative to the store root. Keys that would
// escape the root are rejected.
func (s *FileStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("artifact key %q is not a local path", key)
	}

	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, nil
}
