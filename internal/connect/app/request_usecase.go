package app

import (
	"context"
	"time"

	"prepconnect_service/internal/connect/domain"
	"prepconnect_service/internal/connect/repository"
	"prepconnect_service/pkg/database"
	errprocess "prepconnect_service/pkg/err"

	"github.com/google/uuid"
)

// RequestUseCase 這裡封裝了 connection request 流程
type RequestUseCase interface {
	Create(ctx context.Context, callerID, mentorID, message string) (*domain.ConnectionRequest, error)
	// ListForUser 只能列自己的請求
	ListForUser(ctx context.Context, callerID, userID string) ([]domain.ConnectionRequest, error)
	// UpdateStatus 只有 mentor 可以 accept/reject
	UpdateStatus(ctx context.Context, callerID, requestID string, status domain.RequestStatus) (*domain.ConnectionRequest, error)
}

type requestUseCase struct {
	store repository.RequestStore
}

// NewRequestUseCase 建立一個新的 RequestUseCase
func NewRequestUseCase(store repository.RequestStore) RequestUseCase {
	return &requestUseCase{store: store}
}

func (uc *requestUseCase) Create(ctx context.Context, callerID, mentorID, message string) (*domain.ConnectionRequest, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if mentorID == "" {
		return nil, errprocess.InvalidArgument("missing mentor id")
	}

	req := &domain.ConnectionRequest{
		ID:        uuid.New().String(),
		StudentID: callerID,
		MentorID:  mentorID,
		Message:   message,
		Status:    domain.RequestPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.Save(ctx, req); err != nil {
		return nil, errprocess.Internal("failed to save connection request", err)
	}
	return req, nil
}

func (uc *requestUseCase) ListForUser(ctx context.Context, callerID, userID string) ([]domain.ConnectionRequest, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if callerID != userID {
		return nil, errprocess.Forbidden("cannot list another user's requests")
	}

	requests, err := uc.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal("failed to list connection requests", err)
	}
	return requests, nil
}

func (uc *requestUseCase) UpdateStatus(ctx context.Context, callerID, requestID string, status domain.RequestStatus) (*domain.ConnectionRequest, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if requestID == "" || !domain.ValidStatusUpdate(status) {
		return nil, errprocess.InvalidArgument("missing or invalid request id or status")
	}

	req, err := uc.store.FindByID(ctx, requestID)
	if err == database.ErrKeyNotFound {
		return nil, errprocess.NotFound("connection request not found")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load connection request", err)
	}

	// 只有被請求的 mentor 可以變更狀態
	if req.MentorID != callerID {
		return nil, errprocess.Forbidden("only the mentor can update this request")
	}

	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	if err := uc.store.Save(ctx, req); err != nil {
		return nil, errprocess.Internal("failed to update connection request", err)
	}
	return req, nil
}
