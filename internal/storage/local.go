package storage

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// Local stores objects as plain files below a root directory.
type Local struct {
	bucket *blob.Bucket
}

// NewLocal opens dir as a bucket, creating it when missing. Sidecar attribute
// files are disabled so the tree only holds the uploaded files.
func NewLocal(dir string) (*Local, error) {
	b, err := fileblob.OpenBucket(dir, &fileblob.Options{
		CreateDir: true,
		Metadata:  fileblob.MetadataDontWrite,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open upload dir %q", dir)
	}
	return &Local{bucket: b}, nil
}

var _ Storage = (*Local)(nil)

func (l *Local) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	w, err := l.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: opt.ContentType})
	if err != nil {
		return ObjectInfo{}, errors.Wrap(err, "open blob writer")
	}
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return ObjectInfo{}, errors.Wrap(err, "write blob")
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, errors.Wrap(err, "close blob writer")
	}
	return ObjectInfo{Key: key, Size: n, ContentType: opt.ContentType}, nil
}

func (l *Local) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	rd, err := l.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, ObjectInfo{}, mapBlobError(err)
	}
	return rd, ObjectInfo{
		Key:          key,
		Size:         rd.Size(),
		ContentType:  rd.ContentType(),
		LastModified: rd.ModTime(),
	}, nil
}

func (l *Local) Exists(ctx context.Context, key string) (bool, error) {
	return l.bucket.Exists(ctx, key)
}

func (l *Local) Delete(ctx context.Context, key string) error {
	return mapBlobError(l.bucket.Delete(ctx, key))
}

// Close releases the underlying bucket.
func (l *Local) Close() error {
	return l.bucket.Close()
}

func mapBlobError(err error) error {
	if err == nil {
		return nil
	}
	if gcerrors.Code(err) == gcerrors.NotFound {
		return ErrNotFound
	}
	return err
}
