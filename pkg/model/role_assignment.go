package model

import "github.com/google/uuid"

// UserRoleAssignment is the User↔Role relation
type UserRoleAssignment struct {
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	RoleID uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
}

func (UserRoleAssignment) TableName() string {
	return "user_role_assignments"
}

// TargetRoleAssignment is the Target↔Role relation
type TargetRoleAssignment struct {
	TargetID uuid.UUID `gorm:"column:target_id;type:uuid;primaryKey"`
	RoleID   uuid.UUID `gorm:"column:role_id;type:uuid;primaryKey"`
}

func (TargetRoleAssignment) TableName() string {
	return "target_role_assignments"
}
