package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"prepconnect_service/internal/post/domain"
	"prepconnect_service/pkg/database"
)

const (
	// PostKeyPrefix post record 的命名空間
	PostKeyPrefix = "post:"
	// CommentKeyPrefix comment record 的命名空間
	CommentKeyPrefix = "comment:"
	// LikeKeyPrefix like record 的命名空間, key 形如 like:<postId>:<userId>
	LikeKeyPrefix = "like:"
)

// LikeKey 組出單一使用者對單一貼文的 like key
func LikeKey(postID, userID string) string {
	return LikeKeyPrefix + postID + ":" + userID
}

// PostStore definition post / comment / like 對 KV backend 的轉譯
type PostStore interface {
	SavePost(ctx context.Context, post *domain.Post) error
	FindPostByID(ctx context.Context, postID string) (*domain.Post, error)
	// ListPosts 全量掃描後過濾 authorID (空字串表示不過濾), createdAt 降冪
	ListPosts(ctx context.Context, authorID string) ([]domain.Post, error)
	DeletePost(ctx context.Context, postID string) error

	SaveComment(ctx context.Context, comment *domain.Comment) error
	// ListComments 過濾該貼文的留言, createdAt 升冪
	ListComments(ctx context.Context, postID string) ([]domain.Comment, error)

	SaveLike(ctx context.Context, like *domain.Like) error
	// FindLike 不存在回傳 database.ErrKeyNotFound
	FindLike(ctx context.Context, postID, userID string) (*domain.Like, error)
	DeleteLike(ctx context.Context, postID, userID string) error
}

type kvPostStore struct {
	kv database.KVStore
}

// NewKVPostStore create a PostStore over the generic KV backend
func NewKVPostStore(kv database.KVStore) PostStore {
	return &kvPostStore{kv: kv}
}

func (s *kvPostStore) SavePost(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("failed to marshal post: %w", err)
	}
	if err := s.kv.Set(ctx, PostKeyPrefix+post.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.ID, err)
	}
	return nil
}

func (s *kvPostStore) FindPostByID(ctx context.Context, postID string) (*domain.Post, error) {
	data, err := s.kv.Get(ctx, PostKeyPrefix+postID)
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get post %s: %w", postID, err)
	}

	var post domain.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("malformed post record %s: %w", postID, err)
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("malformed post record %s: %w", postID, err)
	}
	return &post, nil
}

func (s *kvPostStore) ListPosts(ctx context.Context, authorID string) ([]domain.Post, error) {
	raws, err := s.kv.GetByPrefix(ctx, PostKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %w", err)
	}

	var posts []domain.Post
	for _, raw := range raws {
		var post domain.Post
		if err := json.Unmarshal(raw, &post); err != nil {
			return nil, fmt.Errorf("malformed post record: %w", err)
		}
		if err := post.Validate(); err != nil {
			return nil, fmt.Errorf("malformed post record: %w", err)
		}

		if authorID == "" || post.AuthorID == authorID {
			posts = append(posts, post)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID < posts[j].ID
	})
	return posts, nil
}

func (s *kvPostStore) DeletePost(ctx context.Context, postID string) error {
	if err := s.kv.Del(ctx, PostKeyPrefix+postID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}
	return nil
}

func (s *kvPostStore) SaveComment(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(comment)
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}
	if err := s.kv.Set(ctx, CommentKeyPrefix+comment.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save comment %s: %w", comment.ID, err)
	}
	return nil
}

func (s *kvPostStore) ListComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	raws, err := s.kv.GetByPrefix(ctx, CommentKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan comments: %w", err)
	}

	var comments []domain.Comment
	for _, raw := range raws {
		var comment domain.Comment
		if err := json.Unmarshal(raw, &comment); err != nil {
			return nil, fmt.Errorf("malformed comment record: %w", err)
		}
		if err := comment.Validate(); err != nil {
			return nil, fmt.Errorf("malformed comment record: %w", err)
		}

		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *kvPostStore) SaveLike(ctx context.Context, like *domain.Like) error {
	data, err := json.Marshal(like)
	if err != nil {
		return fmt.Errorf("failed to marshal like: %w", err)
	}
	if err := s.kv.Set(ctx, LikeKey(like.PostID, like.UserID), data, 0); err != nil {
		return fmt.Errorf("failed to save like %s: %w", like.PostID, err)
	}
	return nil
}

func (s *kvPostStore) FindLike(ctx context.Context, postID, userID string) (*domain.Like, error) {
	data, err := s.kv.Get(ctx, LikeKey(postID, userID))
	if err == database.ErrKeyNotFound {
		return nil, err
	} else if err != nil {
		return nil, fmt.Errorf("failed to get like %s: %w", postID, err)
	}

	var like domain.Like
	if err := json.Unmarshal(data, &like); err != nil {
		return nil, fmt.Errorf("malformed like record %s: %w", postID, err)
	}
	return &like, nil
}

func (s *kvPostStore) DeleteLike(ctx context.Context, postID, userID string) error {
	if err := s.kv.Del(ctx, LikeKey(postID, userID)); err != nil {
		return fmt.Errorf("failed to delete like %s: %w", postID, err)
	}
	return nil
}
