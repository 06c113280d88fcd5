package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an identity known to the gateway
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Username  string    `gorm:"column:username;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
