package app

import (
	"context"
	"strings"
	"time"

	memberrepo "prepconnect_service/internal/member/repository"
	"prepconnect_service/internal/post/domain"
	"prepconnect_service/internal/post/repository"
	"prepconnect_service/pkg/database"
	errprocess "prepconnect_service/pkg/err"

	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// CreatePostInput create post 的輸入欄位
type CreatePostInput struct {
	Title    string
	Content  string
	ImageURL string
	Tags     string
}

// UpdatePostInput 部分更新, nil 表示不變
type UpdatePostInput struct {
	Title    *string
	Content  *string
	ImageURL *string
	Tags     *string
}

// PostUseCase 這裡封裝了社群貼文流程
type PostUseCase interface {
	Create(ctx context.Context, callerID string, input CreatePostInput) (*domain.Post, error)
	// List 分頁列出貼文, authorID 非空時只列該作者, createdAt 降冪
	List(ctx context.Context, callerID, authorID string, page, limit int) (*domain.PostPage, error)
	Get(ctx context.Context, callerID, postID string) (*domain.Post, error)
	// Update 只有作者可以更新自己的貼文
	Update(ctx context.Context, callerID, postID string, input UpdatePostInput) (*domain.Post, error)
	// Delete 只有作者可以刪除自己的貼文
	Delete(ctx context.Context, callerID, postID string) error
	// ToggleLike 已按讚則收回, 回傳按讚後狀態與計數
	ToggleLike(ctx context.Context, callerID, postID string) (bool, int, error)
	AddComment(ctx context.Context, callerID, postID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, callerID, postID string) ([]domain.Comment, error)
	HasLiked(ctx context.Context, callerID, postID, userID string) (bool, error)
}

type postUseCase struct {
	store    repository.PostStore
	profiles memberrepo.ProfileRepository
}

// NewPostUseCase 建立一個新的 PostUseCase
func NewPostUseCase(store repository.PostStore, profiles memberrepo.ProfileRepository) PostUseCase {
	return &postUseCase{store: store, profiles: profiles}
}

// authorSnapshot 發文當下把作者資訊 denormalize 進 record
func (uc *postUseCase) authorSnapshot(ctx context.Context, userID string) (*domain.PostAuthor, error) {
	profile, err := uc.profiles.FindByUserID(ctx, userID)
	if err == database.ErrKeyNotFound {
		return nil, errprocess.NotFound("user profile not found")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load profile", err)
	}
	return &domain.PostAuthor{
		Name:      profile.Name,
		UserType:  profile.UserType,
		Expertise: profile.Expertise,
	}, nil
}

func (uc *postUseCase) Create(ctx context.Context, callerID string, input CreatePostInput) (*domain.Post, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}

	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, errprocess.InvalidArgument("post title and content are required")
	}

	author, err := uc.authorSnapshot(ctx, callerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New().String(),
		AuthorID:  callerID,
		Title:     title,
		Content:   content,
		ImageURL:  input.ImageURL,
		Tags:      input.Tags,
		CreatedAt: now,
		UpdatedAt: now,
		Author:    *author,
	}

	if err := uc.store.SavePost(ctx, post); err != nil {
		return nil, errprocess.Internal("failed to save post", err)
	}
	return post, nil
}

func (uc *postUseCase) List(ctx context.Context, callerID, authorID string, page, limit int) (*domain.PostPage, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	posts, err := uc.store.ListPosts(ctx, authorID)
	if err != nil {
		return nil, errprocess.Internal("failed to list posts", err)
	}

	total := len(posts)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &domain.PostPage{
		Posts:      posts[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		HasMore:    end < total,
	}, nil
}

func (uc *postUseCase) Get(ctx context.Context, callerID, postID string) (*domain.Post, error) {
	if callerID == "" {
		return nil, errprocess.Unauthenticated("missing caller identity")
	}

	post, err := uc.store.FindPostByID(ctx, postID)
	if err == database.ErrKeyNotFound {
		return nil, errprocess.NotFound("post not found")
	} else if err != nil {
		return nil, errprocess.Internal("failed to load post", err)
	}
	return post, nil
}

func (uc *postUseCase) Update(ctx context.Context, callerID, postID string, input UpdatePostInput) (*domain.Post, error) {
	post, err := uc.Get(ctx, callerID, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, errprocess.Forbidden("cannot edit another user's post")
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		post.Content = strings.TrimSpace(*input.Content)
	}
	if input.ImageURL != nil {
		post.ImageURL = *input.ImageURL
	}
	if input.Tags != nil {
		post.Tags = *input.Tags
	}
	post.UpdatedAt = time.Now().UTC()

	if err := uc.store.SavePost(ctx, post); err != nil {
		return nil, errprocess.Internal("failed to update post", err)
	}
	return post, nil
}

func (uc *postUseCase) Delete(ctx context.Context, callerID, postID string) error {
	post, err := uc.Get(ctx, callerID, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return errprocess.Forbidden("cannot delete another user's post")
	}

	if err := uc.store.DeletePost(ctx, postID); err != nil {
		return errprocess.Internal("failed to delete post", err)
	}
	return nil
}

func (uc *postUseCase) ToggleLike(ctx context.Context, callerID, postID string) (bool, int, error) {
	post, err := uc.Get(ctx, callerID, postID)
	if err != nil {
		return false, 0, err
	}

	_, err = uc.store.FindLike(ctx, postID, callerID)
	switch {
	case err == nil:
		// 收回讚
		if err := uc.store.DeleteLike(ctx, postID, callerID); err != nil {
			return false, 0, errprocess.Internal("failed to delete like", err)
		}
		if post.Likes > 0 {
			post.Likes--
		}
		if err := uc.store.SavePost(ctx, post); err != nil {
			return false, 0, errprocess.Internal("failed to update post", err)
		}
		return false, post.Likes, nil

	case err == database.ErrKeyNotFound:
		like := &domain.Like{
			PostID:    postID,
			UserID:    callerID,
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.store.SaveLike(ctx, like); err != nil {
			return false, 0, errprocess.Internal("failed to save like", err)
		}
		post.Likes++
		if err := uc.store.SavePost(ctx, post); err != nil {
			return false, 0, errprocess.Internal("failed to update post", err)
		}
		return true, post.Likes, nil

	default:
		return false, 0, errprocess.Internal("failed to load like", err)
	}
}

func (uc *postUseCase) AddComment(ctx context.Context, callerID, postID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errprocess.InvalidArgument("comment content is required")
	}

	post, err := uc.Get(ctx, callerID, postID)
	if err != nil {
		return nil, err
	}

	author, err := uc.authorSnapshot(ctx, callerID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		AuthorID:  callerID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Author:    *author,
	}

	if err := uc.store.SaveComment(ctx, comment); err != nil {
		return nil, errprocess.Internal("failed to save comment", err)
	}

	post.Comments++
	if err := uc.store.SavePost(ctx, post); err != nil {
		return nil, errprocess.Internal("failed to update post", err)
	}
	return comment, nil
}

func (uc *postUseCase) ListComments(ctx context.Context, callerID, postID string) ([]domain.Comment, error) {
	if _, err := uc.Get(ctx, callerID, postID); err != nil {
		return nil, err
	}

	comments, err := uc.store.ListComments(ctx, postID)
	if err != nil {
		return nil, errprocess.Internal("failed to list comments", err)
	}
	return comments, nil
}

func (uc *postUseCase) HasLiked(ctx context.Context, callerID, postID, userID string) (bool, error) {
	if callerID == "" {
		return false, errprocess.Unauthenticated("missing caller identity")
	}

	_, err := uc.store.FindLike(ctx, postID, userID)
	if err == database.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, errprocess.Internal("failed to load like", err)
	}
	return true, nil
}
