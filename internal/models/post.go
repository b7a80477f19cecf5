// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post types.
const (
	PostTypeText         = "text"
	PostTypeImage        = "image"
	PostTypeVideo        = "video"
	PostTypeAnnouncement = "announcement"
)

// Post represents a piece of content published by a user.
// LikesCount and CommentsCount are denormalized: the comment and like
// repositories keep them in sync with the child tables inside the same
// transaction as the child-row insert or delete.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	MediaURL      string    `json:"media_url,omitempty"`
	MediaType     string    `json:"media_type,omitempty"`
	Type          string    `gorm:"not null;default:text" json:"type"`
	AuthorID      uint      `gorm:"not null;index" json:"author_id"`
	Author        User      `gorm:"foreignKey:AuthorID" json:"author"`
	LikesCount    int       `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	IsPinned      bool      `gorm:"not null;default:false;index" json:"is_pinned"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidPostType reports whether t is one of the supported post types.
func ValidPostType(t string) bool {
	switch t {
	case PostTypeText, PostTypeImage, PostTypeVideo, PostTypeAnnouncement:
		return true
	}
	return false
}
