package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"prepconnect_service/internal/file/domain"
	"prepconnect_service/internal/file/repository"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// uploadURLExpiry 上傳完成當下回傳的 url 有效期
	uploadURLExpiry = 7 * 24 * time.Hour
	// listURLExpiry 列表時重新簽發的 url 有效期
	listURLExpiry = 24 * time.Hour
)

// UploadInput 上傳一個檔案需要的資料
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// FileUseCase 這裡封裝了檔案上傳與列表
type FileUseCase interface {
	Upload(ctx context.Context, callerID string, in UploadInput) (*domain.FileView, error)
	// ListFiles 只能列自己的檔案, 每次都重新簽發 presigned url
	ListFiles(ctx context.Context, callerID, ownerID string) ([]domain.FileView, error)
}

type fileUseCase struct {
	store   repository.FileStore
	storage repository.ObjectStorage
}

// NewFileUseCase 建立一個新的 FileUseCase
func NewFileUseCase(store repository.FileStore, storage repository.ObjectStorage) FileUseCase {
	return &fileUseCase{store: store, storage: storage}
}

// Upload 檔案進 minio, metadata 進 KV
func (uc *fileUseCase) Upload(ctx context.Context, callerID string, in UploadInput) (*domain.FileView, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if in.FileName == "" || in.Content == nil {
		return nil, errprocess.InvalidArgument("file name and content are required")
	}

	fileID := uuid.New().String()
	// object key 帶 owner 前綴, 方便在 minio console 上瀏覽
	objectKey := path.Join(callerID, fileID+path.Ext(in.FileName))

	if err := uc.storage.PutObject(ctx, objectKey, in.Content, in.Size, in.ContentType); err != nil {
		return nil, errprocess.Internal("failed to upload file", err)
	}

	meta := domain.FileMetadata{
		ID:          fileID,
		OwnerID:     callerID,
		FileName:    in.FileName,
		ObjectKey:   objectKey,
		ContentType: in.ContentType,
		Size:        in.Size,
		UploadedAt:  time.Now().UTC(),
	}
	if err := uc.store.Save(ctx, &meta); err != nil {
		return nil, errprocess.Internal("failed to save file metadata", err)
	}

	url, err := uc.storage.PresignGetURL(ctx, objectKey, uploadURLExpiry)
	if err != nil {
		return nil, errprocess.Internal("failed to presign file url", err)
	}

	logger.Log.Info(fmt.Sprintf("file uploaded %s", fileID), zap.String("owner", callerID), zap.String("object", objectKey))
	return &domain.FileView{FileMetadata: meta, URL: url}, nil
}

// ListFiles list caller 自己的檔案
func (uc *fileUseCase) ListFiles(ctx context.Context, callerID, ownerID string) ([]domain.FileView, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if callerID != ownerID {
		return nil, errprocess.Forbidden("cannot list another user's files")
	}

	metas, err := uc.store.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, errprocess.Internal("failed to list files", err)
	}

	views := make([]domain.FileView, 0, len(metas))
	for _, meta := range metas {
		url, err := uc.storage.PresignGetURL(ctx, meta.ObjectKey, listURLExpiry)
		if err != nil {
			return nil, errprocess.Internal("failed to presign file url", err)
		}
		views = append(views, domain.FileView{FileMetadata: meta, URL: url})
	}
	return views, nil
}
