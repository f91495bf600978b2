package domain

import (
	"time"

	"prepconnect_service/pkg/token"

	errprocess "prepconnect_service/pkg/err"
)

// PostAuthor 發文當下的作者快照, 不隨 profile 更新
type PostAuthor struct {
	Name      string         `json:"name"`
	UserType  token.UserType `json:"userType"`
	Expertise []string       `json:"expertise,omitempty"`
}

// Post 社群動態的一篇貼文, likes/comments 是 denormalized 計數
type Post struct {
	ID        string     `json:"id"`
	AuthorID  string     `json:"authorId"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Tags      string     `json:"tags,omitempty"`
	Likes     int        `json:"likes"`
	Comments  int        `json:"comments"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    PostAuthor `json:"author"`
}

// Validate 在 store adapter 邊界檢查 record
func (p *Post) Validate() error {
	if p.ID == "" {
		return errprocess.InvalidArgument("post id is required")
	}
	if p.AuthorID == "" {
		return errprocess.InvalidArgument("post author is required")
	}
	if p.Title == "" || p.Content == "" {
		return errprocess.InvalidArgument("post title and content are required")
	}
	if p.CreatedAt.IsZero() {
		return errprocess.InvalidArgument("post createdAt is required")
	}
	return nil
}

// Comment 貼文底下的留言
type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	AuthorID  string     `json:"authorId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Author    PostAuthor `json:"author"`
}

// Validate 在 store adapter 邊界檢查 record
func (c *Comment) Validate() error {
	if c.ID == "" {
		return errprocess.InvalidArgument("comment id is required")
	}
	if c.PostID == "" || c.AuthorID == "" {
		return errprocess.InvalidArgument("comment post and author are required")
	}
	if c.Content == "" {
		return errprocess.InvalidArgument("comment content is required")
	}
	return nil
}

// Like 使用者對貼文的按讚 record, 每人每貼文最多一筆
type Like struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostPage 分頁查詢結果
type PostPage struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	HasMore    bool   `json:"hasMore"`
}
