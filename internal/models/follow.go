package models

import "time"

// Follow is a directed edge: UserID (the follower) follows AuthorID.
// The composite unique index keeps concurrent follows of the same pair
// from producing duplicate edges.
type Follow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_follows_user_author;not null"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint      `json:"author_id" gorm:"index;uniqueIndex:idx_follows_user_author;not null"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
