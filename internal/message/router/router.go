package router

import (
	"context"

	connectapp "prepconnect_service/internal/connect/app"
	"prepconnect_service/internal/message/app"
	postapp "prepconnect_service/internal/post/app"
	"prepconnect_service/pkg/config"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes 注册消息相关的路由
func RegisterRoutes(r *fiber.App, polling config.PollingConfig, messageHandler *app.MessageHandler, requestHandler *connectapp.RequestHandler, postHandler *postapp.PostHandler, messageWebsocket *app.MessageWebsocketHandler) {
	r.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("message service start!")
	})

	// client 照這裡的間隔輪詢
	r.Get("/polling-config", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"messageIntervalMs": polling.MessageInterval.Milliseconds(),
			"requestIntervalMs": polling.RequestInterval.Milliseconds(),
		})
	})

	r.Use(middlewares.JWTMiddleware())

	r.Post("/messages", messageHandler.Send)
	r.Get("/messages/:conversationId", messageHandler.ListMessages)
	r.Get("/conversations/:userId", messageHandler.ListConversations)

	r.Post("/connection-request", requestHandler.Create)
	r.Get("/connection-requests/:userId", requestHandler.ListForUser)
	r.Post("/connection-request-update", requestHandler.UpdateStatus)

	r.Post("/posts", postHandler.Create)
	r.Get("/posts", postHandler.List)
	r.Get("/posts/:postId", postHandler.Get)
	r.Put("/posts/:postId", postHandler.Update)
	r.Delete("/posts/:postId", postHandler.Delete)
	r.Post("/posts/:postId/like", postHandler.ToggleLike)
	r.Post("/posts/:postId/comments", postHandler.AddComment)
	r.Get("/posts/:postId/comments", postHandler.ListComments)
	r.Get("/posts/:postId/likes/:userId", postHandler.HasLiked)

	// websocket 推播是 polling 的補充, 沒有 redis 時不註冊
	if messageWebsocket != nil {
		r.Get("/ws", websocket.New(func(c *websocket.Conn) {
			messageWebsocket.HandleConnection(context.Background(), c)
		}))
	}
}
