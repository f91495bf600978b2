package app

import (
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FileHandler 处理文件相关的 HTTP 请求
type FileHandler struct {
	Usecase FileUseCase
}

// NewFileHandler 创建新的 FileHandler
func NewFileHandler(uc FileUseCase) *FileHandler {
	return &FileHandler{Usecase: uc}
}

// Upload multipart 上傳一個檔案
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	caller, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open uploaded file"})
	}
	defer f.Close()

	logger.Log.Debug("Upload request", zap.String("owner", caller), zap.String("file", fileHeader.Filename))

	view, err := h.Usecase.Upload(c.UserContext(), caller, UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     f,
	})
	if err != nil {
		logger.Log.Error("Upload Err", zap.String("owner", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"file": view})
}

// ListFiles 取得 userID 的檔案與下載連結
func (h *FileHandler) ListFiles(c *fiber.Ctx) error {
	caller, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing caller identity"})
	}

	ownerID := c.Params("userId")
	files, err := h.Usecase.ListFiles(c.UserContext(), caller, ownerID)
	if err != nil {
		logger.Log.Error("ListFiles Err", zap.String("caller", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"files": files})
}
