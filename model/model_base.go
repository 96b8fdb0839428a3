package model

import (
	"time"
)

// ModelBase carries the columns shared by every synchronized business
// object. Deleted is a plain flag, not a gorm soft delete: the sync
// engines need to see and revert deleted rows.
type ModelBase struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Deleted   bool      `gorm:"index" json:"deleted"`
}
