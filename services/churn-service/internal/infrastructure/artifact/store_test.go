package artifact_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/bib/services/churn-service/internal/infrastructure/artifact"
)

func TestFileStore_Fetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models", "xgboost.json"), []byte(`{}`), 0o600))

	store := artifact.NewFileStore(dir)

	data, err := store.Fetch(context.Background(), "models/xgboost.json")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), data)

	_, err = store.Fetch(context.Background(), "models/missing.json")
	assert.Error(t, err)

	for _, key := range []string{"../secret.json", "/etc/passwd", "models/../../x.json"} {
		_, err = store.Fetch(context.Background(), key)
		assert.Error(t, err, key)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Fetch(ctx, "models/xgboost.json")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		source  string
		want    any
		wantErr bool
	}{
		{source: "/var/lib/churn/artifacts", want: &artifact.FileStore{}},
		{source: "artifacts", want: &artifact.FileStore{}},
		{source: "file:///var/lib/churn/artifacts", want: &artifact.FileStore{}},
		{source: "s3://churn-models/releases/2024.03", want: &artifact.S3Store{}},
		{source: "s3://churn-models", want: &artifact.S3Store{}},
		{source: "", wantErr: true},
		{source: "s3:///no-bucket", wantErr: true},
		{source: "gs://bucket/prefix", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			store, err := artifact.NewStore(tt.source, artifact.S3Config{Endpoint: "http://127.0.0.1:9000"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)
		})
	}
}
