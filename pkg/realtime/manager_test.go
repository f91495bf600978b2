package realtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"prepconnect_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SubscribeAndUnsubscribe(t *testing.T) {
	logger.SetNewNop()
	m := NewManager(10*time.Millisecond, 10*time.Millisecond)
	defer m.Cleanup()

	var ticks int32
	m.SubscribeMessages("conv1", func(ctx context.Context) (any, error) {
		atomic.AddInt32(&ticks, 1)
		return []string{"msg"}, nil
	}, func(any) {})

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&ticks) >= 3
	}, time.Second, 5*time.Millisecond)

	m.UnsubscribeMessages("conv1")
	assert.False(t, m.Active("messages:conv1"))

	// 停止後不再輪詢
	stopped := atomic.LoadInt32(&ticks)
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&ticks), stopped+1)

	// 重複 unsubscribe 沒有影響
	m.UnsubscribeMessages("conv1")
	m.UnsubscribeMessages("nope")
}

func TestManager_TickFailureDoesNotStopPolling(t *testing.T) {
	logger.SetNewNop()
	m := NewManager(10*time.Millisecond, 10*time.Millisecond)
	defer m.Cleanup()

	var (
		ticks     int32
		delivered int32
	)
	m.SubscribeMessages("conv1", func(ctx context.Context) (any, error) {
		n := atomic.AddInt32(&ticks, 1)
		// 第二次失敗, 其他成功
		if n == 2 {
			return nil, errors.New("network down")
		}
		return "snapshot", nil
	}, func(any) {
		atomic.AddInt32(&delivered, 1)
	})

	// 失敗那一輪沒有 callback, 但輪詢繼續
	require.Eventually(t, func() bool {
		tk := atomic.LoadInt32(&ticks)
		return tk >= 4 && atomic.LoadInt32(&delivered) == tk-1
	}, time.Second, 5*time.Millisecond)
}

func TestManager_ResubscribeReplacesCallback(t *testing.T) {
	logger.SetNewNop()
	m := NewManager(10*time.Millisecond, 10*time.Millisecond)
	defer m.Cleanup()

	var first, second int32
	fetch := func(ctx context.Context) (any, error) { return "snapshot", nil }

	m.SubscribeMessages("conv1", fetch, func(any) { atomic.AddInt32(&first, 1) })
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&first) >= 1
	}, time.Second, 5*time.Millisecond)

	// 同一個 key 再 subscribe, 舊的 callback 停止
	m.SubscribeMessages("conv1", fetch, func(any) { atomic.AddInt32(&second, 1) })
	firstCount := atomic.LoadInt32(&first)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&second) >= 3
	}, time.Second, 5*time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt32(&first), firstCount+1)
}

func TestManager_Cleanup(t *testing.T) {
	logger.SetNewNop()
	m := NewManager(10*time.Millisecond, 10*time.Millisecond)

	fetch := func(ctx context.Context) (any, error) { return "snapshot", nil }
	m.SubscribeMessages("conv1", fetch, func(any) {})
	m.SubscribeConnectionRequests("u1", fetch, func(any) {})

	require.True(t, m.Active("messages:conv1"))
	require.True(t, m.Active("requests:u1"))

	m.Cleanup()
	assert.False(t, m.Active("messages:conv1"))
	assert.False(t, m.Active("requests:u1"))
}
