package store

import (
	"github.com/google/uuid"

	"github.com/omnitron/omnitron-in-go/pkg/model"
)

// TargetsStore abstracts the registry of named upstream targets
type TargetsStore interface {
	// CreateTarget registers a target with a unique name
	CreateTarget(name string, options model.TargetOptions) (*model.Target, error)

	// DeleteTarget removes a target and its role assignments
	DeleteTarget(id uuid.UUID) error

	// ListTargets returns all targets ordered by name
	ListTargets() ([]model.Target, error)

	// Resolve looks up a target by exact name. Returns ErrUnknownTarget
	// when no target matches.
	Resolve(name string) (*model.Target, error)

	// EnsureBuiltins creates the built-in admin role, admin target and
	// their assignment if they don't exist yet
	EnsureBuiltins() error
}
