package models

import "time"

// Post is a single published entry. The author never changes after creation;
// the group is optional and survives as NULL if the group itself is deleted.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	AuthorID  uint      `json:"author_id" gorm:"index;not null"`
	Author    *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	GroupID   *uint     `json:"group_id,omitempty" gorm:"index"`
	Group     *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	ImageURL  string    `json:"image_url,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=10000"`
	GroupID  *uint  `json:"group_id,omitempty"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,max=500"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=10000"`
	GroupID  *uint  `json:"group_id,omitempty"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,max=500"`
}
