package gcs

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
)

//go:generate mockery --name BucketAPI --output ./mocks --outpkg mocks --case underscore

// BucketAPI is the slice of the GCS surface the store needs.
type BucketAPI interface {
	Download(ctx context.Context, object string) (io.ReadCloser, error)
	Upload(ctx context.Context, object string, r io.Reader) error
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b *gcsBucket) Download(ctx context.Context, object string) (io.ReadCloser, error) {
	return b.handle.Object(object).NewReader(ctx)
}

func (b *gcsBucket) Upload(ctx context.Context, object string, r io.Reader) error {
	w := b.handle.Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
