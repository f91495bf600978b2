package app

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"prepconnect_service/internal/message/repository"
	"prepconnect_service/pkg/database"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandlerTestApp(authenticated bool) *fiber.App {
	r := fiber.New()
	if authenticated {
		r.Use(func(c *fiber.Ctx) error {
			c.Locals(middlewares.TokenUserID, "s1")
			return c.Next()
		})
	}
	h := NewMessageHandler(NewMessageUseCase(repository.NewKVMessageStore(database.NewMemoryKVStore(), 0), nil))
	r.Post("/messages", h.Send)
	return r
}

// 測試沒有身份時的回應內容
func TestMessageHandler_MissingCaller(t *testing.T) {
	logger.SetNewNop()
	r := newHandlerTestApp(false)

	req := httptest.NewRequest(fiber.MethodPost, "/messages", strings.NewReader(`{"recipientId":"m1","content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	// 不洩漏內部實作細節
	assert.Equal(t, "missing caller identity", body["error"])
}

// 測試帶身份時正常送出
func TestMessageHandler_SendWithCaller(t *testing.T) {
	logger.SetNewNop()
	r := newHandlerTestApp(true)

	req := httptest.NewRequest(fiber.MethodPost, "/messages", strings.NewReader(`{"recipientId":"m1","content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
