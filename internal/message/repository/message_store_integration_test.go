package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/logger"
	testtool "prepconnect_service/pkg/test_tool"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// **在真的 Redis 上跑 MessageStore 與 Pub/Sub**
func TestMessageStoreRedisIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx := context.Background()
	logger.SetNewNop()

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:latest",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	require.NoError(t, err, "Failed to start Redis container")
	defer redisContainer.Terminate(ctx)
	fmt.Printf("✅ Redis running at %s:%s\n", redisHost, redisPort)

	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})
	defer redisClient.Close()

	kv := database.NewRedisKVStore(redisClient)
	store := NewKVMessageStore(kv, 0)

	// **訊息寫入後讀回, 順序與 summary 都正確**
	conversationKey, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		msg := &domain.Message{
			ID:          fmt.Sprintf("msg-%d", i),
			SenderID:    "s1",
			RecipientID: "m1",
			Content:     fmt.Sprintf("hello %d", i),
			Timestamp:   base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.AppendMessage(ctx, msg))
		_, err := store.UpsertConversationSummary(ctx, conversationKey, msg)
		require.NoError(t, err)
	}

	messages, err := store.ListByConversation(ctx, conversationKey)
	require.NoError(t, err)
	require.Len(t, messages, 5)
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), msg.ID)
	}

	summaries, err := store.ListConversationsForUser(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "hello 4", summaries[0].LastMessage.Content)

	// **Pub/Sub 送一筆訊息, 訂閱者要收到**
	pubsub := NewRedisPubSub(redisClient)
	received := make(chan domain.Message, 1)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pubsub.Subscribe(subCtx, UserChannel("m1"), func(msg domain.Message) {
		received <- msg
	})

	// 等訂閱生效
	time.Sleep(200 * time.Millisecond)

	pushed := &domain.Message{
		ID:          "msg-push",
		SenderID:    "s1",
		RecipientID: "m1",
		Content:     "are you there?",
		Timestamp:   time.Now().UTC(),
	}
	require.NoError(t, pubsub.Publish(UserChannel("m1"), pushed))

	select {
	case got := <-received:
		assert.Equal(t, "msg-push", got.ID)
		assert.Equal(t, "are you there?", got.Content)
	case <-time.After(3 * time.Second):
		t.Fatal("did not receive published message")
	}
}
