package models

// Group is a community that posts can optionally be published into
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"` // URL-safe key, unique across all groups
	Description string `json:"description" gorm:"type:text"`
}

// CreateGroupRequest defines the request body for creating a new group
type CreateGroupRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Slug        string `json:"slug" validate:"required,min=1,max=50,lowercase,excludesall=/ "`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateGroupRequest defines the request body for editing a group.
// The slug is deliberately absent: it may be referenced by posts and stays fixed.
type UpdateGroupRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}
