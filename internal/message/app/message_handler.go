package app

import (
	"errors"

	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MessageHandler 处理消息相关的 HTTP 请求
type MessageHandler struct {
	Usecase MessageUseCase
}

// NewMessageHandler 创建新的 MessageHandler
func NewMessageHandler(uc MessageUseCase) *MessageHandler {
	return &MessageHandler{Usecase: uc}
}

func callerID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return "", errors.New("missing caller identity")
	}
	return id, nil
}

// Send 送出一則訊息
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	type request struct {
		RecipientID string `json:"recipientId"`
		Content     string `json:"content"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Send request", zap.String("sender", caller), zap.String("recipient", req.RecipientID))

	msg, err := h.Usecase.Send(c.UserContext(), caller, req.RecipientID, req.Content)
	if err != nil {
		logger.Log.Error("Send Err", zap.String("sender", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"message": msg})
}

// ListMessages 依 conversation id 取得完整訊息
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	conversationID := c.Params("conversationId")
	messages, err := h.Usecase.ListMessages(c.UserContext(), caller, conversationID)
	if err != nil {
		logger.Log.Error("ListMessages Err", zap.String("caller", caller), zap.String("conversation", conversationID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// ListConversations 取得使用者的對話清單
func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	userID := c.Params("userId")
	views, err := h.Usecase.ListConversationViews(c.UserContext(), caller, userID)
	if err != nil {
		logger.Log.Error("ListConversations Err", zap.String("caller", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"conversations": views})
}
