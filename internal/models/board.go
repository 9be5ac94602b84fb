package models

import (
	"time"

	"gorm.io/gorm"
)

// Board represents a tumor board (MTB) - the case review group
// meetings and submitted cases belong to.
type Board struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Institution string `json:"institution,omitempty"`
	OwnerID     string `gorm:"type:uuid;index;not null" json:"ownerId"`

	Members []BoardMember `gorm:"foreignKey:BoardID" json:"members,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Board) TableName() string {
	return "boards"
}

// BoardMember links a user to a board
type BoardMember struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	BoardID string `gorm:"type:uuid;index:idx_board_user,unique;not null" json:"boardId"`
	UserID  string `gorm:"type:uuid;index:idx_board_user,unique;not null" json:"userId"`
	Role    string `gorm:"default:'member'" json:"role"` // owner, member

	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name
func (BoardMember) TableName() string {
	return "board_members"
}
