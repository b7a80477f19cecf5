// Package service implements the business rules on top of the repositories.
package service

import (
	"context"

	"schoolhub/internal/models"
	"schoolhub/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

type CreateUserInput struct {
	Username          string
	Email             string
	Name              string
	ClassName         string
	ProfilePictureURL string
	Role              string
}

// UpdateUserInput carries the mutable user fields; nil means "leave as is".
type UpdateUserInput struct {
	UserID            uint
	Username          *string
	Email             *string
	Name              *string
	ClassName         *string
	ProfilePictureURL *string
	Role              *string
	IsActive          *bool
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewUniquenessError("username already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewUniquenessError("email already registered")
	}

	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		Username:          in.Username,
		Email:             in.Email,
		Name:              in.Name,
		ClassName:         in.ClassName,
		ProfilePictureURL: in.ProfilePictureURL,
		Role:              role,
		IsActive:          true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByID returns (nil, nil) when the user does not exist.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.UserID)
	}

	updates := map[string]any{}
	if in.Username != nil && *in.Username != user.Username {
		if other, err := s.userRepo.GetByUsername(ctx, *in.Username); err != nil {
			return nil, err
		} else if other != nil && other.ID != user.ID {
			return nil, models.NewUniquenessError("username already taken")
		}
		updates["username"] = *in.Username
	}
	if in.Email != nil && *in.Email != user.Email {
		if other, err := s.userRepo.GetByEmail(ctx, *in.Email); err != nil {
			return nil, err
		} else if other != nil && other.ID != user.ID {
			return nil, models.NewUniquenessError("email already registered")
		}
		updates["email"] = *in.Email
	}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.ClassName != nil {
		updates["class_name"] = *in.ClassName
	}
	if in.ProfilePictureURL != nil {
		updates["profile_picture_url"] = *in.ProfilePictureURL
	}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	if err := s.userRepo.Update(ctx, in.UserID, updates); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UserID)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", id)
	}
	return s.userRepo.Delete(ctx, id)
}
