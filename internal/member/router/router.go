package router

import (
	"prepconnect_service/internal/member/app"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册用户相关的路由
func RegisterRoutes(r *fiber.App, memberHandler *app.MemberHandler) {
	r.Post("/signup", memberHandler.Signup)
	r.Post("/login", memberHandler.Login)
	r.Get("/mentors", memberHandler.ListMentors)
	r.Get("/profile/:userId", memberHandler.GetProfile)

	r.Use(middlewares.JWTMiddleware())
	r.Post("/logout", memberHandler.Logout)
	r.Put("/profile/:userId", memberHandler.UpdateProfile)
}
