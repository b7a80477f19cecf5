package server

import (
	"schoolhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

type createLikeRequest struct {
	UserID uint `json:"user_id"`
}

// CreateLike handles POST /api/posts/:id/likes. Liking a post twice with the
// same user is a conflict.
func (s *Server) CreateLike(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req createLikeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	if req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	like, err := s.likeService.CreateLike(c.Context(), postID, req.UserID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// RemoveLike handles DELETE /api/posts/:id/likes/:userId. Removing a like
// that does not exist still succeeds.
func (s *Server) RemoveLike(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	userID, ok := parseID(c, "userId")
	if !ok {
		return nil
	}

	if err := s.likeService.RemoveLike(c.Context(), postID, userID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
