// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"schoolhub/internal/cache"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for likes.
// Create and Remove keep the parent post's likes_count and updated_at in sync
// with the like rows inside the same transaction.
type LikeRepository interface {
	Create(ctx context.Context, postID, userID uint) (*models.Like, error)
	Remove(ctx context.Context, postID, userID uint) (bool, error)
	Exists(ctx context.Context, postID, userID uint) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts the like and increments the post's likes_count. A second
// like by the same user on the same post fails with Conflict, whether caught
// by the pre-check or by the unique index under a racing insert.
func (r *likeRepository) Create(ctx context.Context, postID, userID uint) (*models.Like, error) {
	like := &models.Like{PostID: postID, UserID: userID}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Like{}).
			Where("post_id = ? AND user_id = ?", postID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.NewConflictError("post already liked by this user")
		}
		if err := tx.Create(like).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]any{"likes_count": gorm.Expr("likes_count + ?", 1)}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if isUniqueConstraintError(err) {
			return nil, models.NewConflictError("post already liked by this user")
		}
		return nil, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return like, nil
}

// Remove deletes the like for (postID, userID) if one exists and decrements
// the post's likes_count, floored at zero. Removing a like that does not
// exist is not an error; the post is left untouched and (false, nil) is
// returned.
func (r *likeRepository) Remove(ctx context.Context, postID, userID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Post{}).
			Where("id = ? AND likes_count > 0", postID).
			Updates(map[string]any{"likes_count": gorm.Expr("likes_count - ?", 1)}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if removed {
		cache.InvalidatePost(ctx, postID)
	}
	return removed, nil
}

func (r *likeRepository) Exists(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
