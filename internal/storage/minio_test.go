package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"hrdocs/internal/config"
)

func TestMapMinIOError(t *testing.T) {
	assert.ErrorIs(t, mapMinIOError(minio.ErrorResponse{Code: "NoSuchKey"}), ErrNotFound)
	assert.ErrorIs(t, mapMinIOError(minio.ErrorResponse{Code: "NotFound", StatusCode: 404}), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapMinIOError(other))
}

func TestNewMinIO_RequiresSettings(t *testing.T) {
	ctx := context.Background()

	_, err := NewMinIO(ctx, config.MinIOConfig{}, "")
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = NewMinIO(ctx, config.MinIOConfig{Endpoint: "localhost:9000"}, "")
	assert.EqualError(t, err, "minio credentials are required")

	_, err = NewMinIO(ctx, config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "")
	assert.EqualError(t, err, "minio bucket is required")
}

func TestMinIOObjectKey(t *testing.T) {
	assert.Equal(t, "empleados/documentos/a.pdf", (&minioStorage{}).object("empleados/documentos/a.pdf"))
	assert.Equal(t, "uploads/empleados/documentos/a.pdf", (&minioStorage{prefix: "uploads"}).object("empleados/documentos/a.pdf"))
}
