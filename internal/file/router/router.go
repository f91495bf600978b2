package router

import (
	"prepconnect_service/internal/file/app"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册文件相关的路由
func RegisterRoutes(r *fiber.App, fileHandler *app.FileHandler) {
	r.Use(middlewares.JWTMiddleware())

	r.Post("/upload", fileHandler.Upload)
	r.Get("/files/:userId", fileHandler.ListFiles)
}
