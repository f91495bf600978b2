package app

import (
	"context"

	"prepconnect_service/internal/message/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageStore Mock MessageStore
type MockMessageStore struct {
	mock.Mock
}

// AppendMessage moke append message
func (m *MockMessageStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// UpsertConversationSummary moke upsert summary
func (m *MockMessageStore) UpsertConversationSummary(ctx context.Context, conversationKey string, msg *domain.Message) (*domain.ConversationSummary, error) {
	args := m.Called(ctx, conversationKey, msg)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ConversationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindConversation moke find summary by key
func (m *MockMessageStore) FindConversation(ctx context.Context, conversationKey string) (*domain.ConversationSummary, error) {
	args := m.Called(ctx, conversationKey)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.ConversationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByConversation moke list conversation messages
func (m *MockMessageStore) ListByConversation(ctx context.Context, conversationKey string) ([]domain.Message, error) {
	args := m.Called(ctx, conversationKey)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListConversationsForUser moke list user conversations
func (m *MockMessageStore) ListConversationsForUser(ctx context.Context, userID string) ([]domain.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.ConversationSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPublisher Mock Publisher
type MockPublisher struct {
	mock.Mock
}

// Publish moke publisher
func (m *MockPublisher) Publish(channel string, message interface{}) error {
	args := m.Called(channel, message)
	return args.Error(0)
}
