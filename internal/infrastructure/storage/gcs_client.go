package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"eventhub/pkg/logger"
)

const publicURLPrefix = "https://storage.googleapis.com/"

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName string, opts ...option.ClientOption) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	storageClient := &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}

	if err := storageClient.setBucketCORS(ctx); err != nil {
		logger.Warn("Failed to set CORS configuration on bucket %s: %v", bucketName, err)
	}

	return storageClient, nil
}

func (c *CloudStorageClient) setBucketCORS(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)

	corsConfig := storage.CORS{
		MaxAge:          3600,
		Methods:         []string{"GET", "HEAD"},
		Origins:         []string{"*"},
		ResponseHeaders: []string{"Content-Type"},
	}

	bucketAttrs, err := bucket.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bucket attributes: %w", err)
	}

	if len(bucketAttrs.CORS) == 0 {
		_, err := bucket.Update(ctx, storage.BucketAttrsToUpdate{
			CORS: []storage.CORS{corsConfig},
		})
		if err != nil {
			return fmt.Errorf("failed to update bucket CORS: %w", err)
		}
	}

	return nil
}

// ObjectName builds "<folder>/<uuid>-<timestamp><ext>" for contentType.
func ObjectName(folder, contentType string, now time.Time) string {
	name := fmt.Sprintf("%s/%s-%s", strings.Trim(folder, "/"), uuid.New().String(), now.Format("20060102150405"))

	switch contentType {
	case "image/jpeg", "image/jpg":
		return name + ".jpg"
	case "image/png":
		return name + ".png"
	case "image/gif":
		return name + ".gif"
	case "image/webp":
		return name + ".webp"
	}
	return name + ".bin"
}

// UploadFile writes file as a publicly readable object under folder.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	filename := ObjectName(folder, contentType, time.Now())

	obj := c.client.Bucket(c.bucketName).Object(filename)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %w", err)
	}

	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %w", err)
	}

	return publicURLPrefix + c.bucketName + "/" + filename, nil
}

// ObjectFromURL extracts the object name from a public URL of bucket.
func ObjectFromURL(bucket, fileURL string) (string, error) {
	if !strings.HasPrefix(fileURL, publicURLPrefix) {
		return "", fmt.Errorf("invalid GCS URL format")
	}

	parts := strings.SplitN(strings.TrimPrefix(fileURL, publicURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] != bucket || parts[1] == "" {
		return "", fmt.Errorf("invalid GCS URL format or bucket mismatch")
	}
	return parts[1], nil
}

func (c *CloudStorageClient) DeleteFile(ctx context.Context, fileURL string) error {
	objectName, err := ObjectFromURL(c.bucketName, fileURL)
	if err != nil {
		return err
	}

	if err := c.client.Bucket(c.bucketName).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
