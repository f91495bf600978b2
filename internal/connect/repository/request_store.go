package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"prepconnect_service/internal/connect/domain"
	"prepconnect_service/pkg/database"
)

// RequestKeyPrefix connection request record 的命名空間
const RequestKeyPrefix = "connection_request:"

// RequestStore definition connection request 對 KV backend 的轉譯
type RequestStore interface {
	Save(ctx context.Context, req *domain.ConnectionRequest) error
	FindByID(ctx context.Context, requestID string) (*domain.ConnectionRequest, error)
	// ListForUser 過濾 mentor 或 student 為 userID 的請求, createdAt 降冪
	ListForUser(ctx context.Context, userID string) ([]domain.ConnectionRequest, error)
}

type kvRequestStore struct {
	kv database.KVStore
}

// NewKVRequestStore create a RequestStore over the generic KV backend
func NewKVRequestStore(kv database.KVStore) RequestStore {
	return &kvRequestStore{kv: kv}
}

func (s *kvRequestStore) Save(ctx context.Context, req *domain.ConnectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal connection request: %w", err)
	}
	if err := s.kv.Set(ctx, RequestKeyPrefix+req.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save connection request %s: %w", req.ID, err)
	}
	return nil
}

func (s *kvRequestStore) FindByID(ctx context.Context, requestID string) (*domain.ConnectionRequest, error) {
	data, err := s.kv.Get(ctx, RequestKeyPrefix+requestID)
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get connection request %s: %w", requestID, err)
	}

	var req domain.ConnectionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("malformed connection request record %s: %w", requestID, err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("malformed connection request record %s: %w", requestID, err)
	}
	return &req, nil
}

func (s *kvRequestStore) ListForUser(ctx context.Context, userID string) ([]domain.ConnectionRequest, error) {
	raws, err := s.kv.GetByPrefix(ctx, RequestKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan connection requests: %w", err)
	}

	var requests []domain.ConnectionRequest
	for _, raw := range raws {
		var req domain.ConnectionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("malformed connection request record: %w", err)
		}
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("malformed connection request record: %w", err)
		}

		if req.MentorID == userID || req.StudentID == userID {
			requests = append(requests, req)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
	return requests, nil
}
