package realtime

import (
	"context"
	"sync"
	"time"

	"prepconnect_service/pkg/config"
	"prepconnect_service/pkg/logger"

	"go.uber.org/zap"
)

// 預設輪詢間隔, 可由 config 覆寫
const (
	// DefaultMessageInterval 訊息輪詢間隔
	DefaultMessageInterval = 2000 * time.Millisecond
	// DefaultRequestInterval connection request 輪詢間隔
	DefaultRequestInterval = 5000 * time.Millisecond
)

const (
	messageKeyPrefix = "messages:"
	requestKeyPrefix = "requests:"
)

// FetchFunc 一次輪詢要取的完整快照
type FetchFunc func(ctx context.Context) (any, error)

// Manager 用輪詢模擬即時訂閱
// 每個 key 只有一個訂閱, 重複 subscribe 會換掉 callback 而不是疊加
type Manager struct {
	mu              sync.Mutex
	messageInterval time.Duration
	requestInterval time.Duration
	subs            map[string]chan struct{}
}

// NewManagerFromConfig create a polling Manager from YAML 設定
func NewManagerFromConfig(cfg config.PollingConfig) *Manager {
	return NewManager(cfg.MessageInterval, cfg.RequestInterval)
}

// NewManager create a polling Manager, interval <= 0 會用預設值
func NewManager(messageInterval, requestInterval time.Duration) *Manager {
	if messageInterval <= 0 {
		messageInterval = DefaultMessageInterval
	}
	if requestInterval <= 0 {
		requestInterval = DefaultRequestInterval
	}
	return &Manager{
		messageInterval: messageInterval,
		requestInterval: requestInterval,
		subs:            make(map[string]chan struct{}),
	}
}

// SubscribeMessages 開始輪詢一個 conversation 的完整訊息快照
func (m *Manager) SubscribeMessages(conversationID string, fetch FetchFunc, callback func(any)) {
	m.subscribe(messageKeyPrefix+conversationID, m.messageInterval, fetch, callback)
}

// UnsubscribeMessages 停止輪詢, 重複呼叫沒有影響
func (m *Manager) UnsubscribeMessages(conversationID string) {
	m.unsubscribe(messageKeyPrefix + conversationID)
}

// SubscribeConnectionRequests 開始輪詢 userID 的 connection requests
func (m *Manager) SubscribeConnectionRequests(userID string, fetch FetchFunc, callback func(any)) {
	m.subscribe(requestKeyPrefix+userID, m.requestInterval, fetch, callback)
}

// UnsubscribeConnectionRequests 停止輪詢, 重複呼叫沒有影響
func (m *Manager) UnsubscribeConnectionRequests(userID string) {
	m.unsubscribe(requestKeyPrefix + userID)
}

// Cleanup 停掉所有訂閱
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, stop := range m.subs {
		close(stop)
		delete(m.subs, key)
	}
}

// Active 回傳 key 是否還在輪詢, 測試用
func (m *Manager) Active(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[key]
	return ok
}

func (m *Manager) subscribe(key string, interval time.Duration, fetch FetchFunc, callback func(any)) {
	m.mu.Lock()
	// 同一個 key 再 subscribe 會换掉舊的 callback
	if stop, ok := m.subs[key]; ok {
		close(stop)
	}
	stop := make(chan struct{})
	m.subs[key] = stop
	m.mu.Unlock()

	go m.poll(key, interval, fetch, callback, stop)
}

func (m *Manager) unsubscribe(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if stop, ok := m.subs[key]; ok {
		close(stop)
		delete(m.subs, key)
	}
}

func (m *Manager) poll(key string, interval time.Duration, fetch FetchFunc, callback func(any), stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// 先跑一次, 訂閱當下就有資料
	m.tick(key, fetch, callback)

	for {
		select {
		case <-ticker.C:
			m.tick(key, fetch, callback)
		case <-stop:
			return
		}
	}
}

// tick 單次輪詢, 失敗只記 log, 下一輪照常
func (m *Manager) tick(key string, fetch FetchFunc, callback func(any)) {
	snapshot, err := fetch(context.Background())
	if err != nil {
		logger.Log.Warn("polling tick failed", zap.String("key", key), zap.String("err", err.Error()))
		return
	}
	callback(snapshot)
}
