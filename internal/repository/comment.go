// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"schoolhub/internal/cache"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
// Create and Delete keep the parent post's comments_count and updated_at in
// sync with the comment rows inside the same transaction.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		// Atomic increment so concurrent comments on the same post never
		// lose updates; Updates also refreshes the post's updated_at.
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			Updates(map[string]any{"comments_count": gorm.Expr("comments_count + ?", 1)}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// GetByID returns (nil, nil) when no comment exists with the given id.
func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListByPost returns the post's comments oldest first. An unknown postID
// yields an empty slice, not an error.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{"content": content}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the comment and decrements the parent post's comments_count,
// floored at zero. A missing comment id — including one already removed by a
// cascading post deletion — yields NotFound.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Comment", id)
			}
			return err
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ? AND comments_count > 0", comment.PostID).
			Updates(map[string]any{"comments_count": gorm.Expr("comments_count - ?", 1)}).Error; err != nil {
			return err
		}
		cache.InvalidatePost(ctx, comment.PostID)
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}
