package gorm

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// Ensure TargetsStore implements store.TargetsStore
var _ store.TargetsStore = (*TargetsStore)(nil)

// TargetsStore implements store.TargetsStore using GORM
type TargetsStore struct {
	db *gorm.DB
}

// NewTargetsStore creates a new TargetsStore
func NewTargetsStore(db *gorm.DB) *TargetsStore {
	return &TargetsStore{db: db}
}

// CreateTarget registers a target with a unique name
func (s *TargetsStore) CreateTarget(name string, options model.TargetOptions) (*model.Target, error) {
	target := model.Target{ID: uuid.New(), Name: name, Options: options}
	if err := s.db.Create(&target).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, fmt.Errorf("failed to create target: %w", err)
	}
	return &target, nil
}

// DeleteTarget removes a target and its role assignments
func (s *TargetsStore) DeleteTarget(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_id = ?", id).Delete(&model.TargetRoleAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Target{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

// ListTargets returns all targets ordered by name
func (s *TargetsStore) ListTargets() ([]model.Target, error) {
	var targets []model.Target
	if err := s.db.Order("name").Find(&targets).Error; err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	return targets, nil
}

// Resolve looks up a target by exact name
func (s *TargetsStore) Resolve(name string) (*model.Target, error) {
	var target model.Target
	if err := s.db.Where("name = ?", name).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUnknownTarget
		}
		return nil, fmt.Errorf("failed to resolve target: %w", err)
	}
	return &target, nil
}

// EnsureBuiltins creates the built-in admin role, admin target and their
// assignment if they don't exist yet
func (s *TargetsStore) EnsureBuiltins() error {
	var role model.Role
	err := s.db.Where("name = ?", store.BuiltinAdminRoleName).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = model.Role{ID: uuid.New(), Name: store.BuiltinAdminRoleName}
		if err := s.db.Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create builtin admin role: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to fetch builtin admin role: %w", err)
	}

	var target model.Target
	err = s.db.Where("name = ?", store.BuiltinAdminTargetName).First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		target = model.Target{
			ID:      uuid.New(),
			Name:    store.BuiltinAdminTargetName,
			Options: model.TargetOptions{Kind: model.TargetKindWebAdmin},
		}
		if err := s.db.Create(&target).Error; err != nil {
			return fmt.Errorf("failed to create builtin admin target: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to fetch builtin admin target: %w", err)
	}

	tx := s.db.Exec(`
		INSERT INTO target_role_assignments (target_id, role_id) VALUES (?, ?)
		ON CONFLICT DO NOTHING
	`, target.ID, role.ID)
	if tx.Error != nil {
		return fmt.Errorf("failed to assign builtin admin role: %w", tx.Error)
	}
	return nil
}
