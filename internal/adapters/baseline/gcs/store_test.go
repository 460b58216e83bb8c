package gcs_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalesec/org-policy-notifier/internal/adapters/baseline/gcs"
	"github.com/scalesec/org-policy-notifier/internal/errors"
	"github.com/scalesec/org-policy-notifier/internal/log"
)

// fakeBucket keeps objects in memory and records uploads.
type fakeBucket struct {
	objects     map[string][]byte
	downloadErr error
	uploadErr   error
	uploads     int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (f *fakeBucket) Download(ctx context.Context, object string) (io.ReadCloser, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[object]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBucket) Upload(ctx context.Context, object string, r io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[object] = data
	f.uploads++
	return nil
}

func newStore(t *testing.T, bucket *fakeBucket) *gcs.Store {
	t.Helper()
	cfg := gcs.Config{
		Bucket:      "policy-bucket",
		Object:      "org_policies.txt",
		StagingPath: filepath.Join(t.TempDir(), "org_policies.txt"),
	}
	store, err := gcs.NewStore(context.Background(), cfg, log.NewNopLogger(), gcs.WithBucketAPI(bucket))
	require.NoError(t, err)
	return store
}

func TestStore_Type(t *testing.T) {
	store := newStore(t, newFakeBucket())
	assert.Equal(t, gcs.StoreTypeGCS, store.Type())
}

func TestStore_Load_AbsentObject(t *testing.T) {
	store := newStore(t, newFakeBucket())

	names, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, names)
}

func TestStore_SaveThenLoad_RoundTrip(t *testing.T) {
	bucket := newFakeBucket()
	store := newStore(t, bucket)
	ctx := context.Background()

	saved := []string{"constraints/b", "constraints/a", "constraints/c"}
	require.NoError(t, store.Save(ctx, saved))

	names, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.ElementsMatch(t, saved, names)
}

func TestStore_Save_NoTrailingBlankLine(t *testing.T) {
	bucket := newFakeBucket()
	store := newStore(t, bucket)

	require.NoError(t, store.Save(context.Background(), []string{"constraints/a", "constraints/b"}))
	assert.Equal(t, "constraints/a\nconstraints/b", string(bucket.objects["org_policies.txt"]))
}

func TestStore_Load_NormalizesLineEndings(t *testing.T) {
	bucket := newFakeBucket()
	bucket.objects["org_policies.txt"] = []byte("constraints/a\r\nconstraints/b\r\n\r\n")
	store := newStore(t, bucket)

	names, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"constraints/a", "constraints/b"}, names)
}

func TestStore_Save_StagesBeforeUpload(t *testing.T) {
	bucket := newFakeBucket()
	bucket.uploadErr = assert.AnError
	bucket.objects["org_policies.txt"] = []byte("constraints/old")

	cfg := gcs.Config{
		Bucket:      "policy-bucket",
		Object:      "org_policies.txt",
		StagingPath: filepath.Join(t.TempDir(), "org_policies.txt"),
	}
	store, err := gcs.NewStore(context.Background(), cfg, log.NewNopLogger(), gcs.WithBucketAPI(bucket))
	require.NoError(t, err)

	err = store.Save(context.Background(), []string{"constraints/new"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeStorage, errors.GetCode(err))

	// Failed upload: the local stage was written, the remote is untouched.
	staged, readErr := os.ReadFile(cfg.StagingPath)
	require.NoError(t, readErr)
	assert.Equal(t, "constraints/new", string(staged))
	assert.Equal(t, "constraints/old", string(bucket.objects["org_policies.txt"]))
}

func TestStore_Save_LocalWriteFailureSkipsUpload(t *testing.T) {
	bucket := newFakeBucket()
	cfg := gcs.Config{
		Bucket:      "policy-bucket",
		Object:      "org_policies.txt",
		StagingPath: filepath.Join(t.TempDir(), "missing-dir", "org_policies.txt"),
	}
	store, err := gcs.NewStore(context.Background(), cfg, log.NewNopLogger(), gcs.WithBucketAPI(bucket))
	require.NoError(t, err)

	err = store.Save(context.Background(), []string{"constraints/a"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeStorage, errors.GetCode(err))
	assert.Zero(t, bucket.uploads)
}

func TestStore_Load_DownloadError(t *testing.T) {
	bucket := newFakeBucket()
	bucket.downloadErr = assert.AnError
	store := newStore(t, bucket)

	_, _, err := store.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeStorage, errors.GetCode(err))
}
