package app

import (
	"errors"

	"prepconnect_service/internal/connect/domain"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestHandler 处理 connection request 相关的 HTTP 请求
type RequestHandler struct {
	Usecase RequestUseCase
}

// NewRequestHandler 创建新的 RequestHandler
func NewRequestHandler(uc RequestUseCase) *RequestHandler {
	return &RequestHandler{Usecase: uc}
}

func callerID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return "", errors.New("missing caller identity")
	}
	return id, nil
}

// Create student 建立一筆 connection request
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	type request struct {
		MentorID string `json:"mentorId"`
		Message  string `json:"message"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	created, err := h.Usecase.Create(c.UserContext(), caller, req.MentorID, req.Message)
	if err != nil {
		logger.Log.Error("Create connection request Err", zap.String("student", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"request": created})
}

// ListForUser 取得 userID 相關的 connection requests
func (h *RequestHandler) ListForUser(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userID := c.Params("userId")
	requests, err := h.Usecase.ListForUser(c.UserContext(), caller, userID)
	if err != nil {
		logger.Log.Error("List connection request Err", zap.String("caller", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"requests": requests})
}

// UpdateStatus mentor accept / reject 一筆 request
func (h *RequestHandler) UpdateStatus(c *fiber.Ctx) error {
	type request struct {
		RequestID string `json:"requestId"`
		Status    string `json:"status"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	updated, err := h.Usecase.UpdateStatus(c.UserContext(), caller, req.RequestID, domain.RequestStatus(req.Status))
	if err != nil {
		logger.Log.Error("Update connection request Err", zap.String("caller", caller), zap.String("request", req.RequestID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"request": updated})
}
