package domain

import (
	"time"

	errprocess "prepconnect_service/pkg/err"
)

// Message 表示一則兩人對話內的訊息, 建立後不可變
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// Validate 在 store adapter 邊界檢查 record, 壞掉的 payload 直接失敗
func (m *Message) Validate() error {
	if m.ID == "" {
		return errprocess.InvalidArgument("message id is required")
	}
	if m.SenderID == "" || m.RecipientID == "" {
		return errprocess.InvalidArgument("message sender and recipient are required")
	}
	if m.Content == "" {
		return errprocess.InvalidArgument("message content is required")
	}
	if m.Timestamp.IsZero() {
		return errprocess.InvalidArgument("message timestamp is required")
	}
	return nil
}

// LastMessage 會話摘要內的最新一則訊息快照
type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SenderID  string    `json:"senderId"`
	MessageID string    `json:"messageId"`
}

// ConversationSummary denormalized 的會話 record, list view 用
type ConversationSummary struct {
	ID           string      `json:"id"`
	Participants []string    `json:"participants"`
	LastMessage  LastMessage `json:"lastMessage"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Validate 在 store adapter 邊界檢查 record
func (c *ConversationSummary) Validate() error {
	if c.ID == "" {
		return errprocess.InvalidArgument("conversation id is required")
	}
	if len(c.Participants) != 2 {
		return errprocess.InvalidArgument("conversation must have exactly two participants")
	}
	if c.UpdatedAt.IsZero() {
		return errprocess.InvalidArgument("conversation updatedAt is required")
	}
	return nil
}

// ConversationView list view 的簡化 model, 由 summary + 觀看者推導
type ConversationView struct {
	ConversationID   string      `json:"conversationId"`
	Participants     []string    `json:"participants"`
	OtherParticipant string      `json:"otherParticipant"`
	LastMessage      LastMessage `json:"lastMessage"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
