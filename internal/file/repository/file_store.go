package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"prepconnect_service/internal/file/domain"
	"prepconnect_service/pkg/database"
)

// FileKeyPrefix file metadata record 的命名空間
const FileKeyPrefix = "file:"

// FileStore definition file metadata 對 KV backend 的轉譯
type FileStore interface {
	Save(ctx context.Context, meta *domain.FileMetadata) error
	FindByID(ctx context.Context, fileID string) (*domain.FileMetadata, error)
	// ListForOwner 只回傳 ownerID 的檔案, uploadedAt 降冪
	ListForOwner(ctx context.Context, ownerID string) ([]domain.FileMetadata, error)
}

type kvFileStore struct {
	kv database.KVStore
}

// NewKVFileStore create a FileStore over the generic KV backend
func NewKVFileStore(kv database.KVStore) FileStore {
	return &kvFileStore{kv: kv}
}

func (s *kvFileStore) Save(ctx context.Context, meta *domain.FileMetadata) error {
	if err := meta.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal file metadata: %w", err)
	}
	if err := s.kv.Set(ctx, FileKeyPrefix+meta.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save file metadata %s: %w", meta.ID, err)
	}
	return nil
}

func (s *kvFileStore) FindByID(ctx context.Context, fileID string) (*domain.FileMetadata, error) {
	data, err := s.kv.Get(ctx, FileKeyPrefix+fileID)
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get file metadata %s: %w", fileID, err)
	}

	var meta domain.FileMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("malformed file metadata record %s: %w", fileID, err)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("malformed file metadata record %s: %w", fileID, err)
	}
	return &meta, nil
}

func (s *kvFileStore) ListForOwner(ctx context.Context, ownerID string) ([]domain.FileMetadata, error) {
	raws, err := s.kv.GetByPrefix(ctx, FileKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan file metadata: %w", err)
	}

	var files []domain.FileMetadata
	for _, raw := range raws {
		var meta domain.FileMetadata
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("malformed file metadata record: %w", err)
		}
		if err := meta.Validate(); err != nil {
			return nil, fmt.Errorf("malformed file metadata record: %w", err)
		}

		if meta.OwnerID == ownerID {
			files = append(files, meta)
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].UploadedAt.Equal(files[j].UploadedAt) {
			return files[i].UploadedAt.After(files[j].UploadedAt)
		}
		return files[i].ID < files[j].ID
	})
	return files, nil
}
