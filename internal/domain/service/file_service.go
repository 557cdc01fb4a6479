package service

import (
	"context"
	"io"
)

// FileUploadService stores listing images and returns their public URLs.
type FileUploadService interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	Close() error
}
