package artifact_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testdataDir = "../../../testdata/artifacts"

// mapStore serves artifacts from memory.
type mapStore map[string][]byte

func (s mapStore) Fetch(_ context.Context, key string) ([]byte, error) {
	data, ok := s[key]
	if !ok {
		return nil, fmt.Errorf("artifact %s not found", key)
	}
	return data, nil
}

// loadTestdata reads every file of the testdata bundle into a mapStore.
func loadTestdata(t *testing.T) mapStore {
	t.Helper()
	store := mapStore{}
	err := filepath.WalkDir(testdataDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(testdataDir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		store[filepath.ToSlash(rel)] = data
		return nil
	})
	require.NoError(t, err)
	return store
}
