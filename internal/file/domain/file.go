package domain

import (
	"time"

	errprocess "prepconnect_service/pkg/err"
)

// FileMetadata 描述一個已上傳的檔案, 存於 KV backend
// 實際內容放在 minio, 這裡只留 object key 與描述
type FileMetadata struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	FileName    string    `json:"fileName"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Validate 在 store adapter 邊界檢查 record
func (f *FileMetadata) Validate() error {
	if f.ID == "" {
		return errprocess.InvalidArgument("file id is required")
	}
	if f.OwnerID == "" {
		return errprocess.InvalidArgument("file owner is required")
	}
	if f.ObjectKey == "" {
		return errprocess.InvalidArgument("file object key is required")
	}
	if f.UploadedAt.IsZero() {
		return errprocess.InvalidArgument("file uploadedAt is required")
	}
	return nil
}

// FileView 回傳給前端的 model, 帶 presigned url
type FileView struct {
	FileMetadata
	URL string `json:"url"`
}
