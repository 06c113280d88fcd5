package gorm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// Ensure RBACStore implements store.RBACStore
var _ store.RBACStore = (*RBACStore)(nil)

// RBACStore implements store.RBACStore using GORM
type RBACStore struct {
	db *gorm.DB
}

// NewRBACStore creates a new RBACStore
func NewRBACStore(db *gorm.DB) *RBACStore {
	return &RBACStore{db: db}
}

// CreateRole creates a role with a unique name
func (s *RBACStore) CreateRole(name string) (*model.Role, error) {
	role := model.Role{ID: uuid.New(), Name: name}
	if err := s.db.Create(&role).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return &role, nil
}

// DeleteRole removes a role and its assignments
func (s *RBACStore) DeleteRole(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.UserRoleAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&model.TargetRoleAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Role{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ListRoles returns all roles ordered by name
func (s *RBACStore) ListRoles() ([]model.Role, error) {
	var roles []model.Role
	if err := s.db.Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// FetchRole retrieves a role by name
func (s *RBACStore) FetchRole(name string) (*model.Role, error) {
	var role model.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch role: %w", err)
	}
	return &role, nil
}

// AssignUserRole inserts into the User↔Role relation.
// Re-assigning an existing pair is a no-op.
func (s *RBACStore) AssignUserRole(userID, roleID uuid.UUID) error {
	tx := s.db.Exec(`
		INSERT INTO user_role_assignments (user_id, role_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, userID, roleID)
	if tx.Error != nil {
		return fmt.Errorf("failed to assign user role: %w", tx.Error)
	}
	return nil
}

// UnassignUserRole removes a pair from the User↔Role relation
func (s *RBACStore) UnassignUserRole(userID, roleID uuid.UUID) error {
	tx := s.db.Exec(`
		DELETE FROM user_role_assignments WHERE user_id = ? AND role_id = ?
	`, userID, roleID)
	if tx.Error != nil {
		return fmt.Errorf("failed to unassign user role: %w", tx.Error)
	}
	return nil
}

// AssignTargetRole inserts into the Target↔Role relation.
// Re-assigning an existing pair is a no-op.
func (s *RBACStore) AssignTargetRole(targetID, roleID uuid.UUID) error {
	tx := s.db.Exec(`
		INSERT INTO target_role_assignments (target_id, role_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, targetID, roleID)
	if tx.Error != nil {
		return fmt.Errorf("failed to assign target role: %w", tx.Error)
	}
	return nil
}

// UnassignTargetRole removes a pair from the Target↔Role relation
func (s *RBACStore) UnassignTargetRole(targetID, roleID uuid.UUID) error {
	tx := s.db.Exec(`
		DELETE FROM target_role_assignments WHERE target_id = ? AND role_id = ?
	`, targetID, roleID)
	if tx.Error != nil {
		return fmt.Errorf("failed to unassign target role: %w", tx.Error)
	}
	return nil
}

// IsAuthorized reports whether the user's role set intersects the target's
// role set. Both relations are indexed by their left key, so the join is
// proportional to the smaller role set.
func (s *RBACStore) IsAuthorized(userID, targetID uuid.UUID) (bool, error) {
	var authorized bool
	tx := s.db.Raw(`
		SELECT EXISTS(
			SELECT 1
			FROM user_role_assignments ura
			JOIN target_role_assignments tra ON tra.role_id = ura.role_id
			WHERE ura.user_id = ? AND tra.target_id = ?
		)
	`, userID, targetID).Scan(&authorized)
	if tx.Error != nil {
		return false, fmt.Errorf("failed to evaluate authorization: %w", tx.Error)
	}
	return authorized, nil
}
