package model

import "github.com/google/uuid"

// Role is a named grouping that connects users to targets
type Role struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name string    `gorm:"column:name;uniqueIndex;not null"`
}

func (Role) TableName() string {
	return "roles"
}
