package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher definition new-message fan-out
type Publisher interface {
	Publish(channel string, message interface{}) error
}

// UserChannel 收件人的通知 channel
func UserChannel(userID string) string {
	return fmt.Sprintf("messages:user:%s", userID)
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{
		client: client,
		ctx:    context.Background(),
	}
}

// Publish 將 message 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, channel, data).Err()
}

// Subscribe 訂閱指定 channel，收到訊息後呼叫 handler 處理
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(msg domain.Message)) error {
	sub := r.client.Subscribe(r.ctx, channel)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var result domain.Message
				if err := json.Unmarshal([]byte(m.Payload), &result); err != nil {
					logger.Log.Error("pubsub payload err :", zap.String("err", fmt.Sprintf("failed to unmarshal message: %v", err)))
					continue
				}
				handler(result)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				// 當 ctx 被取消時，退出循環並關閉訂閱
				sub.Close()
				return
			}
		}
	}()
	return nil
}
