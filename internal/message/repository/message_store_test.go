package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMessage(sender, recipient, content string, ts time.Time) *domain.Message {
	return &domain.Message{
		ID:          uuid.New().String(),
		SenderID:    sender,
		RecipientID: recipient,
		Content:     content,
		Timestamp:   ts,
	}
}

// 測試 append 後可由會話讀回
func TestKVMessageStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	key, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	msg := newTestMessage("s1", "m1", "Can we talk?", time.Now().UTC())
	require.NoError(t, store.AppendMessage(ctx, msg))

	_, err = store.UpsertConversationSummary(ctx, key, msg)
	require.NoError(t, err)

	messages, err := store.ListByConversation(ctx, key)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Can we talk?", messages[0].Content)
	assert.Equal(t, "s1", messages[0].SenderID)
	assert.Equal(t, "m1", messages[0].RecipientID)
}

// 測試亂序寫入後讀取仍為 timestamp 升冪
func TestKVMessageStore_OrderingInvariant(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	key, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	base := time.Now().UTC()
	var msgs []*domain.Message
	for i := 0; i < 5; i++ {
		msgs = append(msgs, newTestMessage("s1", "m1", fmt.Sprintf("msg-%d", i), base.Add(time.Duration(i)*time.Second)))
	}

	// backend 以 3,0,4,1,2 的順序收到寫入
	for _, i := range []int{3, 0, 4, 1, 2} {
		require.NoError(t, store.AppendMessage(ctx, msgs[i]))
		_, err := store.UpsertConversationSummary(ctx, key, msgs[i])
		require.NoError(t, err)
	}

	got, err := store.ListByConversation(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, fmt.Sprintf("msg-%d", i), got[i].Content)
	}
}

// 測試 summary 永遠反映最新訊息
func TestKVMessageStore_SummaryFreshness(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	key, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	base := time.Now().UTC()
	for i := 0; i < 3; i++ {
		msg := newTestMessage("s1", "m1", fmt.Sprintf("msg-%d", i), base.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.AppendMessage(ctx, msg))
		_, err := store.UpsertConversationSummary(ctx, key, msg)
		require.NoError(t, err)
	}

	summaries, err := store.ListConversationsForUser(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "msg-2", summaries[0].LastMessage.Content)
	assert.Equal(t, summaries[0].LastMessage.Timestamp, summaries[0].UpdatedAt)
}

// 測試亂序 upsert 不會讓 summary 倒退 (race 自我修復)
func TestKVMessageStore_SummaryOutOfOrderUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	key, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	base := time.Now().UTC()
	newer := newTestMessage("s1", "m1", "newer", base.Add(2*time.Second))
	older := newTestMessage("m1", "s1", "older", base)

	require.NoError(t, store.AppendMessage(ctx, newer))
	require.NoError(t, store.AppendMessage(ctx, older))

	_, err = store.UpsertConversationSummary(ctx, key, newer)
	require.NoError(t, err)
	// 較舊的 upsert 後到, lastMessage 不可被覆蓋
	summary, err := store.UpsertConversationSummary(ctx, key, older)
	require.NoError(t, err)

	assert.Equal(t, "newer", summary.LastMessage.Content)
}

// 測試 updatedAt 降冪排序
func TestKVMessageStore_ListConversationsOrder(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	base := time.Now().UTC()
	pairs := [][2]string{{"u1", "u2"}, {"u1", "u3"}, {"u1", "u4"}}
	for i, p := range pairs {
		key, err := domain.ResolveConversationKey(p[0], p[1])
		require.NoError(t, err)

		msg := newTestMessage(p[0], p[1], fmt.Sprintf("hello %s", p[1]), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.AppendMessage(ctx, msg))
		_, err = store.UpsertConversationSummary(ctx, key, msg)
		require.NoError(t, err)
	}

	summaries, err := store.ListConversationsForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	// 最新的在前
	assert.Equal(t, "hello u4", summaries[0].LastMessage.Content)
	assert.Equal(t, "hello u2", summaries[2].LastMessage.Content)

	// u2 只看得到自己的會話
	summaries, err = store.ListConversationsForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
}

// 測試壞掉的 record 在 adapter 邊界直接失敗
func TestKVMessageStore_MalformedRecord(t *testing.T) {
	ctx := context.Background()
	kv := database.NewMemoryKVStore()
	store := NewKVMessageStore(kv, 0)

	key, err := domain.ResolveConversationKey("s1", "m1")
	require.NoError(t, err)

	msg := newTestMessage("s1", "m1", "hi", time.Now().UTC())
	require.NoError(t, store.AppendMessage(ctx, msg))
	_, err = store.UpsertConversationSummary(ctx, key, msg)
	require.NoError(t, err)

	// 塞入格式錯誤的 message record
	require.NoError(t, kv.Set(ctx, MessageKeyPrefix+"broken", []byte("{not json"), 0))

	_, err = store.ListByConversation(ctx, key)
	assert.Error(t, err)
}

// 測試不存在的會話
func TestKVMessageStore_ConversationNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewKVMessageStore(database.NewMemoryKVStore(), 0)

	_, err := store.FindConversation(ctx, "u1:u2")
	assert.Equal(t, database.ErrKeyNotFound, err)
}
