package gateway

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

func TestGateMissingTarget(t *testing.T) {
	identity := &mockIdentityStore{}
	rbac := &mockRBACStore{}
	targets := &mockTargetsStore{}
	gate := NewGate(identity, rbac, targets, zerolog.Nop())

	_, err := gate.Authorize("alice", "")
	assert.ErrorIs(t, err, ErrMissingTarget)
	targets.AssertNotCalled(t, "Resolve")
}

func TestGateUnknownTarget(t *testing.T) {
	identity := &mockIdentityStore{}
	rbac := &mockRBACStore{}
	targets := &mockTargetsStore{}
	targets.On("Resolve", "nope").Return(nil, store.ErrUnknownTarget)
	gate := NewGate(identity, rbac, targets, zerolog.Nop())

	_, err := gate.Authorize("alice", "nope")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestGateDeletedUser(t *testing.T) {
	identity := &mockIdentityStore{}
	identity.On("FetchUser", "ghost").Return(nil, store.ErrNotFound)
	rbac := &mockRBACStore{}
	targets := &mockTargetsStore{}
	targets.On("Resolve", "billing").Return(&model.Target{ID: uuid.New(), Name: "billing"}, nil)
	gate := NewGate(identity, rbac, targets, zerolog.Nop())

	_, err := gate.Authorize("ghost", "billing")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGateDisjointRoles(t *testing.T) {
	userID := uuid.New()
	targetID := uuid.New()

	identity := &mockIdentityStore{}
	identity.On("FetchUser", "alice").Return(&model.User{ID: userID, Username: "alice"}, nil)
	rbac := &mockRBACStore{}
	rbac.On("IsAuthorized", userID, targetID).Return(false, nil)
	targets := &mockTargetsStore{}
	targets.On("Resolve", "billing").Return(&model.Target{ID: targetID, Name: "billing"}, nil)
	gate := NewGate(identity, rbac, targets, zerolog.Nop())

	_, err := gate.Authorize("alice", "billing")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGateAuthorized(t *testing.T) {
	userID := uuid.New()
	targetID := uuid.New()
	want := &model.Target{
		ID:   targetID,
		Name: "billing",
		Options: model.TargetOptions{
			Kind: model.TargetKindHTTP,
			URL:  "http://billing.internal:8080",
		},
	}

	identity := &mockIdentityStore{}
	identity.On("FetchUser", "alice").Return(&model.User{ID: userID, Username: "alice"}, nil)
	rbac := &mockRBACStore{}
	rbac.On("IsAuthorized", userID, targetID).Return(true, nil)
	targets := &mockTargetsStore{}
	targets.On("Resolve", "billing").Return(want, nil)
	gate := NewGate(identity, rbac, targets, zerolog.Nop())

	target, err := gate.Authorize("alice", "billing")
	require.NoError(t, err)
	assert.Equal(t, want, target)
	rbac.AssertExpectations(t)
}
