package app

import (
	"context"
	"testing"
	"time"

	memberdomain "prepconnect_service/internal/member/domain"
	memberrepo "prepconnect_service/internal/member/repository"
	"prepconnect_service/internal/post/repository"
	"prepconnect_service/pkg/database"
	errprocess "prepconnect_service/pkg/err"
	"prepconnect_service/pkg/logger"
	"prepconnect_service/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPostUseCase(t *testing.T) PostUseCase {
	t.Helper()
	kv := database.NewMemoryKVStore()
	profiles := memberrepo.NewKVProfileRepository(kv)
	for _, p := range []memberdomain.Profile{
		{UserID: "u1", Name: "Alice", UserType: token.UserTypeStudent, CreatedAt: time.Now().UTC()},
		{UserID: "m1", Name: "Bob", UserType: token.UserTypeMentor, Expertise: []string{"go"}, CreatedAt: time.Now().UTC()},
	} {
		p := p
		require.NoError(t, profiles.Save(context.Background(), &p))
	}
	return NewPostUseCase(repository.NewKVPostStore(kv), profiles)
}

// 測試發文與讀取
func TestPostUseCase_CreateAndGet(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	uc := newTestPostUseCase(t)

	t.Run("成功發文", func(t *testing.T) {
		post, err := uc.Create(ctx, "m1", CreatePostInput{Title: "  interview tips  ", Content: "practice daily", Tags: "career"})
		require.NoError(t, err)
		assert.Equal(t, "interview tips", post.Title)
		assert.Equal(t, "m1", post.AuthorID)
		// 作者快照來自發文當下的 profile
		assert.Equal(t, "Bob", post.Author.Name)
		assert.Equal(t, token.UserTypeMentor, post.Author.UserType)

		got, err := uc.Get(ctx, "u1", post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
	})

	t.Run("缺標題", func(t *testing.T) {
		_, err := uc.Create(ctx, "m1", CreatePostInput{Content: "no title"})
		assert.Equal(t, errprocess.CodeInvalidArgument, errprocess.CodeOf(err))
	})

	t.Run("沒有 profile 不能發文", func(t *testing.T) {
		_, err := uc.Create(ctx, "ghost", CreatePostInput{Title: "t", Content: "c"})
		assert.Equal(t, errprocess.CodeNotFound, errprocess.CodeOf(err))
	})

	t.Run("貼文不存在", func(t *testing.T) {
		_, err := uc.Get(ctx, "u1", "nope")
		assert.Equal(t, errprocess.CodeNotFound, errprocess.CodeOf(err))
	})
}

// 測試分頁與作者過濾
func TestPostUseCase_List(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	uc := newTestPostUseCase(t)

	for i := 0; i < 3; i++ {
		_, err := uc.Create(ctx, "m1", CreatePostInput{Title: "t", Content: "c"})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := uc.Create(ctx, "u1", CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	t.Run("分頁", func(t *testing.T) {
		page, err := uc.List(ctx, "u1", "", 1, 3)
		require.NoError(t, err)
		assert.Len(t, page.Posts, 3)
		assert.Equal(t, 4, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasMore)

		page, err = uc.List(ctx, "u1", "", 2, 3)
		require.NoError(t, err)
		assert.Len(t, page.Posts, 1)
		assert.False(t, page.HasMore)
	})

	t.Run("依作者過濾", func(t *testing.T) {
		page, err := uc.List(ctx, "u1", "m1", 1, 20)
		require.NoError(t, err)
		assert.Len(t, page.Posts, 3)
		for _, p := range page.Posts {
			assert.Equal(t, "m1", p.AuthorID)
		}
	})

	t.Run("新貼文排前面", func(t *testing.T) {
		page, err := uc.List(ctx, "u1", "", 1, 20)
		require.NoError(t, err)
		require.Len(t, page.Posts, 4)
		for i := 1; i < len(page.Posts); i++ {
			assert.False(t, page.Posts[i-1].CreatedAt.Before(page.Posts[i].CreatedAt))
		}
	})
}

// 測試更新與刪除權限
func TestPostUseCase_UpdateAndDelete(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	uc := newTestPostUseCase(t)

	post, err := uc.Create(ctx, "m1", CreatePostInput{Title: "old", Content: "c"})
	require.NoError(t, err)

	t.Run("非作者不能改", func(t *testing.T) {
		title := "hacked"
		_, err := uc.Update(ctx, "u1", post.ID, UpdatePostInput{Title: &title})
		assert.Equal(t, errprocess.CodePermissionDenied, errprocess.CodeOf(err))
	})

	t.Run("作者部分更新", func(t *testing.T) {
		title := "new"
		updated, err := uc.Update(ctx, "m1", post.ID, UpdatePostInput{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "new", updated.Title)
		// 沒帶的欄位不變
		assert.Equal(t, "c", updated.Content)
	})

	t.Run("非作者不能刪", func(t *testing.T) {
		err := uc.Delete(ctx, "u1", post.ID)
		assert.Equal(t, errprocess.CodePermissionDenied, errprocess.CodeOf(err))
	})

	t.Run("作者刪除後讀不到", func(t *testing.T) {
		require.NoError(t, uc.Delete(ctx, "m1", post.ID))
		_, err := uc.Get(ctx, "u1", post.ID)
		assert.Equal(t, errprocess.CodeNotFound, errprocess.CodeOf(err))
	})
}

// 測試按讚 toggle 與留言
func TestPostUseCase_LikeAndComment(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	uc := newTestPostUseCase(t)

	post, err := uc.Create(ctx, "m1", CreatePostInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	t.Run("按讚再收回", func(t *testing.T) {
		liked, likes, err := uc.ToggleLike(ctx, "u1", post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, likes)

		yes, err := uc.HasLiked(ctx, "u1", post.ID, "u1")
		require.NoError(t, err)
		assert.True(t, yes)

		liked, likes, err = uc.ToggleLike(ctx, "u1", post.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, 0, likes)

		yes, err = uc.HasLiked(ctx, "u1", post.ID, "u1")
		require.NoError(t, err)
		assert.False(t, yes)
	})

	t.Run("留言累計與排序", func(t *testing.T) {
		first, err := uc.AddComment(ctx, "u1", post.ID, "first")
		require.NoError(t, err)
		assert.Equal(t, "Alice", first.Author.Name)
		time.Sleep(2 * time.Millisecond)
		_, err = uc.AddComment(ctx, "m1", post.ID, "second")
		require.NoError(t, err)

		comments, err := uc.ListComments(ctx, "u1", post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)

		got, err := uc.Get(ctx, "u1", post.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Comments)
	})

	t.Run("空留言", func(t *testing.T) {
		_, err := uc.AddComment(ctx, "u1", post.ID, "   ")
		assert.Equal(t, errprocess.CodeInvalidArgument, errprocess.CodeOf(err))
	})

	t.Run("對不存在的貼文按讚", func(t *testing.T) {
		_, _, err := uc.ToggleLike(ctx, "u1", "nope")
		assert.Equal(t, errprocess.CodeNotFound, errprocess.CodeOf(err))
	})
}
