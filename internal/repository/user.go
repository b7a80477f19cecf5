// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"schoolhub/internal/cache"
	"schoolhub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewUniquenessError("username or email already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID returns (nil, nil) when no user exists with the given id; absence
// is an expected outcome on reads, not an error.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	found, err := cache.Aside(ctx, key, &user, cache.UserTTL, func() (bool, error) {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
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
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Update applies the supplied column values to the user row. GORM refreshes
// updated_at automatically; created_at is never part of the map. An empty map
// still refreshes updated_at, matching the update contract.
func (r *userRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		updates = map[string]any{"updated_at": time.Now()}
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewUniquenessError("username or email already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Delete removes the user and everything they own: posts they authored
// (including those posts' comments and likes), comments and likes they made
// on other users' posts (adjusting those posts' counters), and finally the
// user row. The whole deletion set is one transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		// Children of the user's own posts go first so the per-post counter
		// adjustments below only ever see surviving posts.
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
		}

		// Comments the user authored on other users' posts.
		type postCommentCount struct {
			PostID uint
			N      int
		}
		var counts []postCommentCount
		if err := tx.Model(&models.Comment{}).
			Select("post_id, COUNT(*) AS n").
			Where("author_id = ?", id).
			Group("post_id").
			Scan(&counts).Error; err != nil {
			return err
		}
		for _, pc := range counts {
			if err := tx.Model(&models.Post{}).
				Where("id = ?", pc.PostID).
				Updates(map[string]any{
					"comments_count": gorm.Expr(
						"CASE WHEN comments_count >= ? THEN comments_count - ? ELSE 0 END", pc.N, pc.N),
				}).Error; err != nil {
				return err
			}
			cache.InvalidatePost(ctx, pc.PostID)
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		// Likes the user made on other users' posts; (post_id, user_id) is
		// unique, so each affected post loses exactly one like.
		var likedPostIDs []uint
		if err := tx.Model(&models.Like{}).Where("user_id = ?", id).Pluck("post_id", &likedPostIDs).Error; err != nil {
			return err
		}
		if len(likedPostIDs) > 0 {
			if err := tx.Model(&models.Post{}).
				Where("id IN ? AND likes_count > 0", likedPostIDs).
				Updates(map[string]any{"likes_count": gorm.Expr("likes_count - 1")}).Error; err != nil {
				return err
			}
			for _, pid := range likedPostIDs {
				cache.InvalidatePost(ctx, pid)
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		if err := tx.Where("author_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		for _, pid := range postIDs {
			cache.InvalidatePost(ctx, pid)
		}

		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
