package store

import (
	"github.com/google/uuid"

	"github.com/omnitron/omnitron-in-go/pkg/model"
)

// RBACStore abstracts the role graph: the User↔Role and Target↔Role
// relations and the intersection test over them.
type RBACStore interface {
	// CreateRole creates a role with a unique name
	CreateRole(name string) (*model.Role, error)

	// DeleteRole removes a role and its assignments
	DeleteRole(id uuid.UUID) error

	// ListRoles returns all roles ordered by name
	ListRoles() ([]model.Role, error)

	// FetchRole retrieves a role by name
	FetchRole(name string) (*model.Role, error)

	// AssignUserRole inserts into the User↔Role relation.
	// Re-assigning an existing pair is a no-op.
	AssignUserRole(userID, roleID uuid.UUID) error

	// UnassignUserRole removes a pair from the User↔Role relation
	UnassignUserRole(userID, roleID uuid.UUID) error

	// AssignTargetRole inserts into the Target↔Role relation.
	// Re-assigning an existing pair is a no-op.
	AssignTargetRole(targetID, roleID uuid.UUID) error

	// UnassignTargetRole removes a pair from the Target↔Role relation
	UnassignTargetRole(targetID, roleID uuid.UUID) error

	// IsAuthorized reports whether the user's role set intersects the
	// target's role set
	IsAuthorized(userID, targetID uuid.UUID) (bool, error)
}
