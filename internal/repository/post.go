// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"schoolhub/internal/cache"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID returns (nil, nil) when no post exists with the given id.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	found, err := cache.Aside(ctx, key, &post, cache.PostTTL, func() (bool, error) {
		if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, models.NewInternalError(err)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &post, nil
}

// List returns every post, pinned posts first, newest first within each group.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("is_pinned DESC, created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Update applies the supplied column values to the post row. GORM refreshes
// updated_at automatically; type and author_id are never part of the map. An
// empty map still refreshes updated_at, matching the update contract.
func (r *postRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		updates = map[string]any{"updated_at": time.Now()}
	}
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Delete removes the post together with all of its comments and likes in a
// single transaction. The schema declares the same cascade for PostgreSQL;
// the explicit deletes keep the semantics identical on engines where the
// foreign-key cascade is not enforced.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
