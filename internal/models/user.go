// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a member of the school community.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Username          string    `gorm:"unique;not null" json:"username"`
	Email             string    `gorm:"unique;not null" json:"email"`
	Name              string    `gorm:"not null" json:"name"`
	ClassName         string    `json:"class_name"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Role              string    `gorm:"not null;default:student" json:"role"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Posts             []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
