package server

import (
	"strings"

	"schoolhub/internal/models"
	"schoolhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createUserRequest struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	ClassName         string `json:"class_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Role              string `json:"role"`
}

type updateUserRequest struct {
	Username          *string `json:"username"`
	Email             *string `json:"email"`
	Name              *string `json:"name"`
	ClassName         *string `json:"class_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	Role              *string `json:"role"`
	IsActive          *bool   `json:"is_active"`
}

// CreateUser handles POST /api/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("username and email are required"))
	}
	if req.Role != "" && req.Role != models.RoleStudent && req.Role != models.RoleAdmin {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("role must be 'student' or 'admin'"))
	}

	user, err := s.userService.CreateUser(c.Context(), service.CreateUserInput{
		Username:          req.Username,
		Email:             req.Email,
		Name:              req.Name,
		ClassName:         req.ClassName,
		ProfilePictureURL: req.ProfilePictureURL,
		Role:              req.Role,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserByID handles GET /api/users/:id. A missing user is not an error
// here; the response body is JSON null.
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("invalid request body"))
	}
	if req.Role != nil && *req.Role != models.RoleStudent && *req.Role != models.RoleAdmin {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("role must be 'student' or 'admin'"))
	}

	user, err := s.userService.UpdateUser(c.Context(), service.UpdateUserInput{
		UserID:            id,
		Username:          req.Username,
		Email:             req.Email,
		Name:              req.Name,
		ClassName:         req.ClassName,
		ProfilePictureURL: req.ProfilePictureURL,
		Role:              req.Role,
		IsActive:          req.IsActive,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id. It removes the user together
// with their posts, comments and likes.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.userService.DeleteUser(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
