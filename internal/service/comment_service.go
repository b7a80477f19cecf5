package service

import (
	"context"

	"schoolhub/internal/models"
	"schoolhub/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

type CreateCommentInput struct {
	Content  string
	PostID   uint
	AuthorID uint
}

type UpdateCommentInput struct {
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// CreateComment checks the post first, then the author, so a request where
// both are invalid reports the missing post.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", in.AuthorID)
	}

	comment := &models.Comment{
		Content:  in.Content,
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListCommentsByPost returns the post's comments oldest first; an unknown
// post yields an empty slice.
func (s *CommentService) ListCommentsByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if err := s.commentRepo.UpdateContent(ctx, in.CommentID, in.Content); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, in.CommentID)
}

func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	return s.commentRepo.Delete(ctx, id)
}
