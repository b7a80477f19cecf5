// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"time"

	"schoolhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:          gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:             gofakeit.Email(),
		Name:              gofakeit.Name(),
		ClassName:         fmt.Sprintf("%d%s", gofakeit.Number(5, 12), gofakeit.RandomString([]string{"A", "B", "C"})),
		ProfilePictureURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", uuid.NewString()),
		Role:              models.RoleStudent,
		IsActive:          true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost creates a post of the given type for the author, with media
// fields populated to match the type. Announcement posts require an admin
// author; the factory does not enforce that, callers pick suitable authors.
func (f *Factory) CreatePost(author *models.User, postType string, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:    gofakeit.Sentence(5),
		Content:  gofakeit.Paragraph(1, 3, 5, "\n"),
		Type:     postType,
		AuthorID: author.ID,
	}

	switch postType {
	case models.PostTypeImage:
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", uuid.NewString())
		post.MediaType = "image/jpeg"
	case models.PostTypeVideo:
		post.MediaURL = fmt.Sprintf("https://cdn.example.com/videos/%s.mp4", uuid.NewString())
		post.MediaType = "video/mp4"
	case models.PostTypeAnnouncement:
		post.Title = fmt.Sprintf("Announcement: %s", post.Title)
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the post and bumps the post's
// comments_count so the denormalized counter stays truthful.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  gofakeit.Sentence(8),
		PostID:   post.ID,
		AuthorID: author.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]any{"comments_count": gorm.Expr("comments_count + ?", 1)}).Error
	})
	if err != nil {
		return nil, err
	}
	post.CommentsCount++
	return comment, nil
}

// CreateLike persists a like from `user` on `post` and bumps likes_count.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		PostID: post.ID,
		UserID: user.ID,
	}
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]any{"likes_count": gorm.Expr("likes_count + ?", 1)}).Error
	})
	if err != nil {
		return err
	}
	post.LikesCount++
	return nil
}
