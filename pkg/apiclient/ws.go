package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"prepconnect_service/internal/message/domain"
	"prepconnect_service/pkg/logger"

	"github.com/gorilla/websocket"
)

// SubscribeWS 連上 /ws 接收 server 推播的新訊息
// 斷線就結束, 呼叫端可以靠 polling Manager 補上
func (c *Client) SubscribeWS(ctx context.Context, wsBaseURL string, onMessage func(domain.Message)) error {
	u, err := url.Parse(wsBaseURL + "/ws")
	if err != nil {
		return fmt.Errorf("parse ws url: %w", err)
	}
	q := u.Query()
	q.Set("auth", c.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial ws: %w", err)
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read ws: %w", err)
		}

		var msg domain.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Log.Errorf("ws payload unmarshal error:", err)
			continue
		}
		onMessage(msg)
	}
}
