package app

import (
	"context"
	"io"
	"time"

	"prepconnect_service/internal/file/domain"

	"github.com/stretchr/testify/mock"
)

// MockFileStore FileStore moke 模擬 KV metadata 存取
type MockFileStore struct {
	mock.Mock
}

// Save moke 寫入 metadata
func (m *MockFileStore) Save(ctx context.Context, meta *domain.FileMetadata) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

// FindByID moke 讀取 metadata
func (m *MockFileStore) FindByID(ctx context.Context, fileID string) (*domain.FileMetadata, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.FileMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListForOwner moke 列出 owner 的 metadata
func (m *MockFileStore) ListForOwner(ctx context.Context, ownerID string) ([]domain.FileMetadata, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.FileMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockObjectStorage ObjectStorage moke 模擬 minio
type MockObjectStorage struct {
	mock.Mock
}

// PutObject moke 上傳
func (m *MockObjectStorage) PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, objectName, reader, size, contentType)
	return args.Error(0)
}

// PresignGetURL moke 簽發下載 url
func (m *MockObjectStorage) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}
