package service

import (
	"context"

	"schoolhub/internal/models"
	"schoolhub/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	Title     string
	Content   string
	MediaURL  string
	MediaType string
	Type      string
	AuthorID  uint
	IsPinned  bool
}

// UpdatePostInput carries the mutable post fields; nil means "leave as is".
// Type and AuthorID are immutable after creation.
type UpdatePostInput struct {
	PostID    uint
	Title     *string
	Content   *string
	MediaURL  *string
	MediaType *string
	IsPinned  *bool
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFoundError("User", in.AuthorID)
	}

	postType := in.Type
	if postType == "" {
		postType = models.PostTypeText
	}
	if !models.ValidPostType(postType) {
		return nil, models.NewValidationError("invalid post type")
	}
	if postType == models.PostTypeAnnouncement && !author.IsAdmin() {
		return nil, models.NewPermissionDeniedError("only admin users can create announcements")
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		MediaURL:  in.MediaURL,
		MediaType: in.MediaType,
		Type:      postType,
		AuthorID:  in.AuthorID,
		IsPinned:  in.IsPinned,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Reload with the author preloaded for the response.
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostByID returns (nil, nil) when the post does not exist.
func (s *PostService) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// ListPostsByAuthor returns an empty slice for an unknown author; a filter
// read never errors on an unmatched filter.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.postRepo.ListByAuthor(ctx, authorID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.MediaURL != nil {
		updates["media_url"] = *in.MediaURL
	}
	if in.MediaType != nil {
		updates["media_type"] = *in.MediaType
	}
	if in.IsPinned != nil {
		updates["is_pinned"] = *in.IsPinned
	}

	if err := s.postRepo.Update(ctx, in.PostID, updates); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NewNotFoundError("Post", id)
	}
	return s.postRepo.Delete(ctx, id)
}
