package app

import (
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"
	"prepconnect_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MemberHandler 处理用户相关的 HTTP 请求
type MemberHandler struct {
	Usecase MemberUseCase
}

// NewMemberHandler 创建新的 MemberHandler
func NewMemberHandler(uc MemberUseCase) *MemberHandler {
	return &MemberHandler{Usecase: uc}
}

// Signup 注册新用户
func (h *MemberHandler) Signup(c *fiber.Ctx) error {
	type request struct {
		Email     string   `json:"email"`
		Password  string   `json:"password"`
		Name      string   `json:"name"`
		UserType  string   `json:"userType"`
		Bio       string   `json:"bio"`
		Expertise []string `json:"expertise"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Signup request", zap.String("email", req.Email), zap.String("userType", req.UserType))

	profile, err := h.Usecase.Signup(c.UserContext(), SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		UserType:  token.UserType(req.UserType),
		Bio:       req.Bio,
		Expertise: req.Expertise,
	})
	if err != nil {
		logger.Log.Error("Signup Err", zap.String("email", req.Email), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"user": profile, "message": "signup success"})
}

// Login 用户登录
func (h *MemberHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	t, err := h.Usecase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logger.Log.Error("Login Err", zap.String("email", req.Email), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"token": t, "message": "login success"})
}

// Logout 用户登出
func (h *MemberHandler) Logout(c *fiber.Ctx) error {
	userID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}

	if err := h.Usecase.Logout(c.UserContext(), userID); err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"message": "logout success"})
}

// GetProfile 查找用户信息
func (h *MemberHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Params("userId")
	profile, err := h.Usecase.GetProfile(c.UserContext(), userID)
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"user": profile})
}

// UpdateProfile 修改本人的 profile
func (h *MemberHandler) UpdateProfile(c *fiber.Ctx) error {
	type request struct {
		Name      *string  `json:"name"`
		Bio       *string  `json:"bio"`
		Expertise []string `json:"expertise"`
	}

	callerID, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	userID := c.Params("userId")
	profile, err := h.Usecase.UpdateProfile(c.UserContext(), callerID, userID, req.Name, req.Bio, req.Expertise)
	if err != nil {
		logger.Log.Error("UpdateProfile Err", zap.String("caller", callerID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"user": profile})
}

// ListMentors mentor 目錄
func (h *MemberHandler) ListMentors(c *fiber.Ctx) error {
	mentors, err := h.Usecase.ListMentors(c.UserContext())
	if err != nil {
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"mentors": mentors})
}
