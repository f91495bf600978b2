package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/pkg/database"
)

const (
	// MessageKeyPrefix message record 的命名空間
	MessageKeyPrefix = "message:"
	// ConversationKeyPrefix conversation summary record 的命名空間
	ConversationKeyPrefix = "conversation:"
)

// MessageStore definition message / conversation 對 KV backend 的轉譯
type MessageStore interface {
	// AppendMessage 寫入一筆訊息, 失敗時 caller 不可假設部分成功
	AppendMessage(ctx context.Context, msg *domain.Message) error
	// UpsertConversationSummary 讀取現有 summary, 以新訊息替換 lastMessage / updatedAt
	// last-write-wins, tie-break 先比 timestamp 再比 message id
	UpsertConversationSummary(ctx context.Context, conversationKey string, msg *domain.Message) (*domain.ConversationSummary, error)
	// FindConversation 查詢單一 summary, 不存在回傳 database.ErrKeyNotFound
	FindConversation(ctx context.Context, conversationKey string) (*domain.ConversationSummary, error)
	// ListByConversation 全量掃描後過濾該會話的訊息, timestamp 升冪
	ListByConversation(ctx context.Context, conversationKey string) ([]domain.Message, error)
	// ListConversationsForUser 掃描 summary, 過濾 participants 含 userID, updatedAt 降冪
	ListConversationsForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error)
}

type kvMessageStore struct {
	kv database.KVStore

	// messageTTL 0 表示永久保留
	messageTTL time.Duration
}

// NewKVMessageStore create a MessageStore over the generic KV backend
func NewKVMessageStore(kv database.KVStore, messageTTL time.Duration) MessageStore {
	return &kvMessageStore{kv: kv, messageTTL: messageTTL}
}

func (s *kvMessageStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.kv.Set(ctx, MessageKeyPrefix+msg.ID, data, s.messageTTL); err != nil {
		return fmt.Errorf("failed to append message %s: %w", msg.ID, err)
	}
	return nil
}

func (s *kvMessageStore) UpsertConversationSummary(ctx context.Context, conversationKey string, msg *domain.Message) (*domain.ConversationSummary, error) {
	last := domain.LastMessage{
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		SenderID:  msg.SenderID,
		MessageID: msg.ID,
	}

	summary, err := s.FindConversation(ctx, conversationKey)
	if err == database.ErrKeyNotFound {
		// 第一則訊息, 建立 summary
		summary = &domain.ConversationSummary{
			ID:           conversationKey,
			Participants: []string{msg.SenderID, msg.RecipientID},
			LastMessage:  last,
			UpdatedAt:    msg.Timestamp,
		}
	} else if err != nil {
		return nil, err
	} else if newerLastMessage(last, summary.LastMessage) {
		summary.LastMessage = last
		summary.UpdatedAt = msg.Timestamp
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation summary: %w", err)
	}

	// summary 永不過期, 任何後續 send 都會自我修復
	if err := s.kv.Set(ctx, ConversationKeyPrefix+conversationKey, data, 0); err != nil {
		return nil, fmt.Errorf("failed to upsert conversation %s: %w", conversationKey, err)
	}
	return summary, nil
}

func (s *kvMessageStore) FindConversation(ctx context.Context, conversationKey string) (*domain.ConversationSummary, error) {
	data, err := s.kv.Get(ctx, ConversationKeyPrefix+conversationKey)
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", conversationKey, err)
	}

	var summary domain.ConversationSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("malformed conversation record %s: %w", conversationKey, err)
	}
	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("malformed conversation record %s: %w", conversationKey, err)
	}
	return &summary, nil
}

func (s *kvMessageStore) ListByConversation(ctx context.Context, conversationKey string) ([]domain.Message, error) {
	summary, err := s.FindConversation(ctx, conversationKey)
	if err != nil {
		return nil, err
	}

	raws, err := s.kv.GetByPrefix(ctx, MessageKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan messages: %w", err)
	}

	a, b := summary.Participants[0], summary.Participants[1]
	var messages []domain.Message
	for _, raw := range raws {
		var msg domain.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("malformed message record: %w", err)
		}
		if err := msg.Validate(); err != nil {
			return nil, fmt.Errorf("malformed message record: %w", err)
		}

		// 過濾出兩人之間的訊息, sender/recipient 任一方向
		if (msg.SenderID == a && msg.RecipientID == b) ||
			(msg.SenderID == b && msg.RecipientID == a) {
			messages = append(messages, msg)
		}
	}

	// 每次讀取都重新排序, 不依賴 backend 的寫入順序
	sort.Slice(messages, func(i, j int) bool {
		if !messages[i].Timestamp.Equal(messages[j].Timestamp) {
			return messages[i].Timestamp.Before(messages[j].Timestamp)
		}
		return messages[i].ID < messages[j].ID
	})
	return messages, nil
}

func (s *kvMessageStore) ListConversationsForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	raws, err := s.kv.GetByPrefix(ctx, ConversationKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan conversations: %w", err)
	}

	var summaries []domain.ConversationSummary
	for _, raw := range raws {
		var summary domain.ConversationSummary
		if err := json.Unmarshal(raw, &summary); err != nil {
			return nil, fmt.Errorf("malformed conversation record: %w", err)
		}
		if err := summary.Validate(); err != nil {
			return nil, fmt.Errorf("malformed conversation record: %w", err)
		}

		if domain.IsParticipant(summary.Participants, userID) {
			summaries = append(summaries, summary)
		}
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

// newerLastMessage 同一瞬間的兩筆寫入以 message id 做確定性 tie-break
func newerLastMessage(candidate, current domain.LastMessage) bool {
	if !candidate.Timestamp.Equal(current.Timestamp) {
		return candidate.Timestamp.After(current.Timestamp)
	}
	return candidate.MessageID >= current.MessageID
}
