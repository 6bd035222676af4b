package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cofix/internal/config"
)

// ImageArchive keeps the raw bytes of post images as opaque objects.
type ImageArchive interface {
	UploadImage(ctx context.Context, postID int64, email string, data []byte) (objectName, contentType string, err error)
	DeleteImage(ctx context.Context, objectName string) error
}

type MinIOClient struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}
	}

	return &MinIOClient{client: client, bucket: cfg.BucketName, now: time.Now}, nil
}

// ObjectName lays objects out as posts/<postId>/<yyyy>/<mm>/<uuid><ext>.
func ObjectName(postID int64, uploadedAt time.Time, id, extension string) string {
	return fmt.Sprintf("posts/%d/%d/%02d/%s%s",
		postID,
		uploadedAt.Year(),
		uploadedAt.Month(),
		id,
		extension)
}

func (m *MinIOClient) UploadImage(ctx context.Context, postID int64, email string, data []byte) (string, string, error) {
	mtype := mimetype.Detect(data)

	now := m.now()
	objectName := ObjectName(postID, now, uuid.New().String(), mtype.Extension())

	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: mtype.String(),
			UserMetadata: map[string]string{
				"post-id":     fmt.Sprintf("%d", postID),
				"owner-email": email,
				"uploaded-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload to minio: %w", err)
	}

	return objectName, mtype.String(), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove from minio: %w", err)
	}
	return nil
}
