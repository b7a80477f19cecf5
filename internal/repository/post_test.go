package repository

import (
	"context"
	"testing"
	"time"

	"schoolhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_GetByID_Absent(t *testing.T) {
	db := newDB(t)
	repo := NewPostRepository(db)

	post, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostRepository_List_PinnedFirstThenNewest(t *testing.T) {
	db := newDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, models.RoleAdmin)

	base := time.Now().Add(-time.Hour)
	oldUnpinned := &models.Post{Title: "old", Content: "c", Type: models.PostTypeText,
		AuthorID: author.ID, CreatedAt: base}
	newUnpinned := &models.Post{Title: "new", Content: "c", Type: models.PostTypeText,
		AuthorID: author.ID, CreatedAt: base.Add(30 * time.Minute)}
	oldPinned := &models.Post{Title: "pinned", Content: "c", Type: models.PostTypeAnnouncement,
		AuthorID: author.ID, IsPinned: true, CreatedAt: base.Add(10 * time.Minute)}
	for _, p := range []*models.Post{oldUnpinned, newUnpinned, oldPinned} {
		require.NoError(t, db.Create(p).Error)
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, oldPinned.ID, posts[0].ID)
	assert.Equal(t, newUnpinned.ID, posts[1].ID)
	assert.Equal(t, oldUnpinned.ID, posts[2].ID)
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	db := newDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, models.RoleStudent)
	bob := createTestUser(t, db, models.RoleStudent)
	createTestPost(t, db, alice, models.PostTypeText)
	createTestPost(t, db, alice, models.PostTypeImage)
	createTestPost(t, db, bob, models.PostTypeText)

	posts, err := repo.ListByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	t.Run("unknown author yields empty slice", func(t *testing.T) {
		posts, err := repo.ListByAuthor(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestPostRepository_Update_EmptyMapRefreshesUpdatedAt(t *testing.T) {
	db := newDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, models.RoleStudent)
	post := createTestPost(t, db, author, models.PostTypeText)
	before := loadPost(t, db, post.ID).UpdatedAt

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, repo.Update(ctx, post.ID, map[string]any{}))

	after := loadPost(t, db, post.ID).UpdatedAt
	assert.True(t, after.After(before), "updated_at should move forward on every update")
}

func TestPostRepository_Delete_RemovesChildren(t *testing.T) {
	db := newDB(t)
	postRepo := NewPostRepository(db)
	commentRepo := NewCommentRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, models.RoleStudent)
	liker := createTestUser(t, db, models.RoleStudent)
	post := createTestPost(t, db, author, models.PostTypeText)

	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		Content: "c", PostID: post.ID, AuthorID: liker.ID,
	}))
	_, err := likeRepo.Create(ctx, post.ID, liker.ID)
	require.NoError(t, err)

	require.NoError(t, postRepo.Delete(ctx, post.ID))

	got, err := postRepo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var commentCount, likeCount int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Zero(t, commentCount)
	assert.Zero(t, likeCount)
}
