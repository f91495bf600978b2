package app

import (
	"context"
	"encoding/json"
	"time"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/internal/message/repository"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// MessageWebsocketHandler 將新訊息即時推給已連線的 user
type MessageWebsocketHandler struct {
	pubsub *repository.RedisPubSub
}

// NewMessageWebsocketHandler create MessageWebsocketHandler
func NewMessageWebsocketHandler(pubsub *repository.RedisPubSub) *MessageWebsocketHandler {
	return &MessageWebsocketHandler{pubsub: pubsub}
}

// HandleConnection 是 WebSocket 連線的進入點
// 連線只做推播, 送訊息仍走 REST; 訂閱自己的 user channel
func (h *MessageWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	if !ok || userID == "" {
		logger.Log.Error("websocket missing user identity")
		conn.Close()
		return
	}
	logger.Log.Info("websocket handle userID", zap.String("userID", userID))

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("userID", userID))
		conn.Close()
		cancel()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	//啟用sub訂閱自己的訊息
	channel := repository.UserChannel(userID)
	h.pubsub.Subscribe(ctxClose, channel, func(msg domain.Message) {
		h.pushMessage(conn, msg)
	})

	// 定期發送 Ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, []byte("ping message")); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				logger.Log.Infof("Ping goroutine cancelled for user:", userID)
				return
			}
		}
	}()

	for {
		// 只需讀取以偵測斷線, 任何內容都忽略
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
	}
}

// pushMessage - 發送 JSON 給前端
func (h *MessageWebsocketHandler) pushMessage(conn *websocket.Conn, msg domain.Message) {
	b, err := json.Marshal(msg)
	if err != nil {
		logger.Log.Errorf("marshal message error:", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}
