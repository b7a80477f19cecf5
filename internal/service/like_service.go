package service

import (
	"context"

	"schoolhub/internal/models"
	"schoolhub/internal/repository"
)

type LikeService struct {
	likeRepo repository.LikeRepository
	postRepo repository.PostRepository
}

func NewLikeService(likeRepo repository.LikeRepository, postRepo repository.PostRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, postRepo: postRepo}
}

func (s *LikeService) CreateLike(ctx context.Context, postID, userID uint) (*models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", postID)
	}

	return s.likeRepo.Create(ctx, postID, userID)
}

// RemoveLike is idempotent: removing a like that does not exist succeeds
// without touching the post.
func (s *LikeService) RemoveLike(ctx context.Context, postID, userID uint) error {
	_, err := s.likeRepo.Remove(ctx, postID, userID)
	return err
}
