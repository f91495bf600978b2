package app

import (
	"context"
	"time"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/internal/message/repository"
	"prepconnect_service/pkg/database"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageUseCase 這裡封裝了對外提供的訊息服務
type MessageUseCase interface {
	// Send 建立訊息並更新會話 summary, append 成功之前 summary 不可見
	Send(ctx context.Context, callerID, recipientID, content string) (*domain.Message, error)
	// ListMessages 回傳該會話全部訊息, timestamp 升冪, 每次都是完整快照
	ListMessages(ctx context.Context, callerID, conversationKey string) ([]domain.Message, error)
	// ListConversations 回傳 userID 的會話 summary, updatedAt 降冪
	ListConversations(ctx context.Context, callerID, userID string) ([]domain.ConversationSummary, error)
	// ListConversationViews list view 用的簡化 model
	ListConversationViews(ctx context.Context, callerID, userID string) ([]domain.ConversationView, error)
}

type messageUseCase struct {
	store  repository.MessageStore
	pubsub repository.Publisher
}

// NewMessageUseCase 建立一個新的 MessageUseCase
func NewMessageUseCase(store repository.MessageStore, pubsub repository.Publisher) MessageUseCase {
	return &messageUseCase{
		store:  store,
		pubsub: pubsub,
	}
}

// Send send message
func (uc *messageUseCase) Send(ctx context.Context, callerID, recipientID, content string) (*domain.Message, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if recipientID == "" || content == "" {
		return nil, errprocess.InvalidArgument("missing recipient or message content")
	}

	conversationKey, err := domain.ResolveConversationKey(callerID, recipientID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:          uuid.New().String(),
		SenderID:    callerID,
		RecipientID: recipientID,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		Read:        false,
	}

	// 先 append 再更新 summary, 避免 reader 看到指向不存在訊息的 summary
	if err := uc.store.AppendMessage(ctx, msg); err != nil {
		return nil, errprocess.Internal("failed to store message", err)
	}
	if _, err := uc.store.UpsertConversationSummary(ctx, conversationKey, msg); err != nil {
		return nil, errprocess.Internal("failed to update conversation", err)
	}

	// 通知收件人, 失敗只記 log (polling 會補上)
	if uc.pubsub != nil {
		if err := uc.pubsub.Publish(repository.UserChannel(recipientID), msg); err != nil {
			logger.Log.Warn("publish new message failed", zap.String("recipient", recipientID), zap.Error(err))
		}
	}

	return msg, nil
}

// ListMessages get conversation full history
func (uc *messageUseCase) ListMessages(ctx context.Context, callerID, conversationKey string) ([]domain.Message, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}

	summary, err := uc.store.FindConversation(ctx, conversationKey)
	if err == database.ErrKeyNotFound {
		// 會話不存在視同無權存取, 不洩漏存在性
		return nil, errprocess.Forbidden("access denied to conversation")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load conversation", err)
	}

	if !domain.IsParticipant(summary.Participants, callerID) {
		return nil, errprocess.Forbidden("access denied to conversation")
	}

	messages, err := uc.store.ListByConversation(ctx, conversationKey)
	if err != nil {
		return nil, errprocess.Internal("failed to list messages", err)
	}
	return messages, nil
}

// ListConversations get user conversation index
func (uc *messageUseCase) ListConversations(ctx context.Context, callerID, userID string) ([]domain.ConversationSummary, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if callerID != userID {
		return nil, errprocess.Forbidden("cannot list another user's conversations")
	}

	summaries, err := uc.store.ListConversationsForUser(ctx, userID)
	if err != nil {
		return nil, errprocess.Internal("failed to list conversations", err)
	}
	return summaries, nil
}

// ListConversationViews get user conversation list view
func (uc *messageUseCase) ListConversationViews(ctx context.Context, callerID, userID string) ([]domain.ConversationView, error) {
	summaries, err := uc.ListConversations(ctx, callerID, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ConversationView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, domain.ConversationView{
			ConversationID:   s.ID,
			Participants:     s.Participants,
			OtherParticipant: domain.OtherParticipant(s.Participants, userID),
			LastMessage:      s.LastMessage,
			UpdatedAt:        s.UpdatedAt,
		})
	}
	return views, nil
}
