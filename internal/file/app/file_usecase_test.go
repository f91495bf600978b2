package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"prepconnect_service/internal/file/domain"
	"prepconnect_service/internal/file/repository"
	"prepconnect_service/pkg/database"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFileUseCase_Upload(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	// **情境 1: 上傳成功, metadata 與 presigned url 都回來**
	t.Run("成功上傳", func(t *testing.T) {
		mockStorage := new(MockObjectStorage)
		store := repository.NewKVFileStore(database.NewMemoryKVStore())

		mockStorage.On("PutObject", ctx, mock.Anything, mock.Anything, int64(5), "text/plain").Return(nil).Once()
		mockStorage.On("PresignGetURL", ctx, mock.Anything, uploadURLExpiry).Return("http://minio/presigned", nil).Once()

		uc := NewFileUseCase(store, mockStorage)
		view, err := uc.Upload(ctx, "u1", UploadInput{
			FileName:    "notes.txt",
			ContentType: "text/plain",
			Size:        5,
			Content:     strings.NewReader("hello"),
		})

		require.NoError(t, err)
		assert.Equal(t, "u1", view.OwnerID)
		assert.Equal(t, "http://minio/presigned", view.URL)
		assert.True(t, strings.HasPrefix(view.ObjectKey, "u1/"))

		// metadata 落在 KV
		got, err := store.FindByID(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, "notes.txt", got.FileName)
		mockStorage.AssertExpectations(t)
	})

	// **情境 2: minio 失敗時 metadata 不落地**
	t.Run("上傳失敗", func(t *testing.T) {
		mockStorage := new(MockObjectStorage)
		mockStore := new(MockFileStore)

		mockStorage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

		uc := NewFileUseCase(mockStore, mockStorage)
		_, err := uc.Upload(ctx, "u1", UploadInput{
			FileName: "notes.txt",
			Size:     5,
			Content:  strings.NewReader("hello"),
		})

		assert.Equal(t, errprocess.CodeInternal, errprocess.CodeOf(err))
		mockStore.AssertNotCalled(t, "Save", ctx, mock.Anything)
	})

	// **情境 3: 缺少身份或檔案**
	t.Run("參數錯誤", func(t *testing.T) {
		uc := NewFileUseCase(new(MockFileStore), new(MockObjectStorage))

		_, err := uc.Upload(ctx, "", UploadInput{FileName: "a", Content: strings.NewReader("x")})
		assert.Equal(t, errprocess.CodeUnauthenticated, errprocess.CodeOf(err))

		_, err = uc.Upload(ctx, "u1", UploadInput{})
		assert.Equal(t, errprocess.CodeInvalidArgument, errprocess.CodeOf(err))
	})
}

func TestFileUseCase_ListFiles(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	store := repository.NewKVFileStore(database.NewMemoryKVStore())
	now := time.Now().UTC()
	require.NoError(t, store.Save(ctx, &domain.FileMetadata{ID: "f1", OwnerID: "u1", FileName: "a.txt", ObjectKey: "u1/f1", UploadedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.FileMetadata{ID: "f2", OwnerID: "u1", FileName: "b.txt", ObjectKey: "u1/f2", UploadedAt: now}))
	require.NoError(t, store.Save(ctx, &domain.FileMetadata{ID: "f3", OwnerID: "u2", FileName: "c.txt", ObjectKey: "u2/f3", UploadedAt: now}))

	mockStorage := new(MockObjectStorage)
	mockStorage.On("PresignGetURL", ctx, mock.Anything, listURLExpiry).Return("http://minio/presigned", nil)

	uc := NewFileUseCase(store, mockStorage)

	// 只回自己的檔案, uploadedAt 降冪, url 重新簽發
	files, err := uc.ListFiles(ctx, "u1", "u1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "f2", files[0].ID)
	assert.Equal(t, "f1", files[1].ID)
	assert.Equal(t, "http://minio/presigned", files[0].URL)

	// 不能列別人的
	_, err = uc.ListFiles(ctx, "u1", "u2")
	assert.Equal(t, errprocess.CodePermissionDenied, errprocess.CodeOf(err))
}
