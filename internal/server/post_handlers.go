package server

import (
	"strings"

	"schoolhub/internal/models"
	"schoolhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	MediaURL  string `json:"media_url"`
	MediaType string `json:"media_type"`
	Type      string `json:"type"`
	AuthorID  uint   `json:"author_id"`
	IsPinned  bool   `json:"is_pinned"`
}

type updatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	MediaURL  *string `json:"media_url"`
	MediaType *string `json:"media_type"`
	IsPinned  *bool   `json:"is_pinned"`
}

// CreatePost handles POST /api/posts. Announcement posts require an admin
// author.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	if strings.TrimSpace(req.Title) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("title is required"))
	}
	if req.AuthorID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("author_id is required"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		Type:      req.Type,
		AuthorID:  req.AuthorID,
		IsPinned:  req.IsPinned,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts. Pinned posts come first, then newest.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPostByID handles GET /api/posts/:id. A missing post is not an error
// here; the response body is JSON null.
func (s *Server) GetPostByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.postService.GetPostByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPostsByAuthor handles GET /api/users/:id/posts. An unknown author
// yields an empty list.
func (s *Server) GetPostsByAuthor(c *fiber.Ctx) error {
	authorID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	posts, err := s.postService.ListPostsByAuthor(c.Context(), authorID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id. The post type and author are fixed
// at creation and cannot be changed here.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		PostID:    id,
		Title:     req.Title,
		Content:   req.Content,
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		IsPinned:  req.IsPinned,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id, removing the post with its
// comments and likes.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
