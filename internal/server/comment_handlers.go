package server

import (
	"strings"

	"schoolhub/internal/models"
	"schoolhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	AuthorID uint   `json:"author_id"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment handles POST /api/posts/:id/comments. Creating a comment
// bumps the post's comments_count in the same transaction.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("content is required"))
	}
	if req.AuthorID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("author_id is required"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		Content:  req.Content,
		PostID:   postID,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetCommentsByPost handles GET /api/posts/:id/comments, oldest first.
func (s *Server) GetCommentsByPost(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	comments, err := s.commentService.ListCommentsByPost(c.Context(), postID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/comments/:id. Only the content can change.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("content is required"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id and decrements the post's
// comments_count.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
