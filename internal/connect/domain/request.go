package domain

import (
	"time"

	errprocess "prepconnect_service/pkg/err"
)

// RequestStatus definition connection request status
type RequestStatus string

const (
	// RequestPending 等待 mentor 處理
	RequestPending RequestStatus = "pending"
	// RequestAccepted mentor 接受
	RequestAccepted RequestStatus = "accepted"
	// RequestRejected mentor 拒絕
	RequestRejected RequestStatus = "rejected"
)

// ValidStatusUpdate 只有 accepted / rejected 可以由 mentor 設定
func ValidStatusUpdate(s RequestStatus) bool {
	return s == RequestAccepted || s == RequestRejected
}

// ConnectionRequest student 向 mentor 發出的連結請求
type ConnectionRequest struct {
	ID        string        `json:"id"`
	StudentID string        `json:"studentId"`
	MentorID  string        `json:"mentorId"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt,omitempty"`
}

// Validate 在 store adapter 邊界檢查 record
func (r *ConnectionRequest) Validate() error {
	if r.ID == "" {
		return errprocess.InvalidArgument("request id is required")
	}
	if r.StudentID == "" || r.MentorID == "" {
		return errprocess.InvalidArgument("request student and mentor are required")
	}
	if r.CreatedAt.IsZero() {
		return errprocess.InvalidArgument("request createdAt is required")
	}
	return nil
}
