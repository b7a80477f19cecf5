package repository

import (
	"fmt"
	"testing"

	"schoolhub/internal/models"
	"schoolhub/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var userSeq int

// createTestUser persists a user with unique username/email.
func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("user%d", userSeq),
		Email:    fmt.Sprintf("user%d@example.edu", userSeq),
		Name:     fmt.Sprintf("Test User %d", userSeq),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, postType string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    "test post",
		Content:  "some content",
		Type:     postType,
		AuthorID: author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func loadPost(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, id).Error)
	return &post
}

// newDB is a thin alias so test bodies read naturally.
func newDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}
