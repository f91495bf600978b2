package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage definition 檔案內容的存取, *database.MinIOClient 實作這個介面
type ObjectStorage interface {
	PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}
