package app

import (
	"errors"

	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PostHandler 处理社群贴文相关的 HTTP 请求
type PostHandler struct {
	Usecase PostUseCase
}

// NewPostHandler 创建新的 PostHandler
func NewPostHandler(uc PostUseCase) *PostHandler {
	return &PostHandler{Usecase: uc}
}

func callerID(c *fiber.Ctx) (string, error) {
	id, ok := c.Locals(middlewares.TokenUserID).(string)
	if !ok {
		return "", errors.New("missing caller identity")
	}
	return id, nil
}

// Create 建立一篇貼文
func (h *PostHandler) Create(c *fiber.Ctx) error {
	type request struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"imageUrl"`
		Tags     string `json:"tags"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	post, err := h.Usecase.Create(c.UserContext(), caller, CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		logger.Log.Error("Create post Err", zap.String("author", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"post": post})
}

// List 分頁列出貼文, 可用 authorId 過濾
func (h *PostHandler) List(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	page := c.QueryInt("page", defaultPage)
	limit := c.QueryInt("limit", defaultLimit)
	authorID := c.Query("authorId")

	pageResult, err := h.Usecase.List(c.UserContext(), caller, authorID, page, limit)
	if err != nil {
		logger.Log.Error("List posts Err", zap.String("caller", caller), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{
		"posts": pageResult.Posts,
		"pagination": fiber.Map{
			"page":       pageResult.Page,
			"limit":      pageResult.Limit,
			"total":      pageResult.Total,
			"totalPages": pageResult.TotalPages,
			"hasMore":    pageResult.HasMore,
		},
	})
}

// Get 取得單篇貼文
func (h *PostHandler) Get(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	postID := c.Params("postId")
	post, err := h.Usecase.Get(c.UserContext(), caller, postID)
	if err != nil {
		logger.Log.Error("Get post Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"post": post})
}

// Update 作者更新自己的貼文
func (h *PostHandler) Update(c *fiber.Ctx) error {
	type request struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		ImageURL *string `json:"imageUrl"`
		Tags     *string `json:"tags"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	postID := c.Params("postId")
	post, err := h.Usecase.Update(c.UserContext(), caller, postID, UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Tags:     req.Tags,
	})
	if err != nil {
		logger.Log.Error("Update post Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"post": post})
}

// Delete 作者刪除自己的貼文
func (h *PostHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	postID := c.Params("postId")
	if err := h.Usecase.Delete(c.UserContext(), caller, postID); err != nil {
		logger.Log.Error("Delete post Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"message": "post deleted"})
}

// ToggleLike 按讚 / 收回讚
func (h *PostHandler) ToggleLike(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	postID := c.Params("postId")
	liked, likes, err := h.Usecase.ToggleLike(c.UserContext(), caller, postID)
	if err != nil {
		logger.Log.Error("Toggle like Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"liked": liked, "likes": likes})
}

// AddComment 對貼文留言
func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	type request struct {
		Content string `json:"content"`
	}

	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	postID := c.Params("postId")
	comment, err := h.Usecase.AddComment(c.UserContext(), caller, postID, req.Content)
	if err != nil {
		logger.Log.Error("Add comment Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"comment": comment})
}

// ListComments 取得貼文留言, createdAt 升冪
func (h *PostHandler) ListComments(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	postID := c.Params("postId")
	comments, err := h.Usecase.ListComments(c.UserContext(), caller, postID)
	if err != nil {
		logger.Log.Error("List comments Err", zap.String("post", postID), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// HasLiked 查詢某使用者是否已對貼文按讚
func (h *PostHandler) HasLiked(c *fiber.Ctx) error {
	caller, err := callerID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	liked, err := h.Usecase.HasLiked(c.UserContext(), caller, c.Params("postId"), c.Params("userId"))
	if err != nil {
		logger.Log.Error("Check like Err", zap.String("post", c.Params("postId")), zap.String("Err :", err.Error()))
		return c.Status(errprocess.HTTPStatus(err)).JSON(fiber.Map{"error": errprocess.ClientMessage(err)})
	}
	return c.JSON(fiber.Map{"liked": liked})
}
