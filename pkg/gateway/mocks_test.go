package gateway

import (
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/omnitron/omnitron-in-go/pkg/model"
)

type mockTicketsStore struct {
	mock.Mock
}

func (m *mockTicketsStore) Issue(username, targetName string, expiry *time.Time, usesLeft *int) (*model.Ticket, error) {
	args := m.Called(username, targetName, expiry, usesLeft)
	if t := args.Get(0); t != nil {
		return t.(*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketsStore) Validate(secret string) (*model.Ticket, error) {
	args := m.Called(secret)
	if t := args.Get(0); t != nil {
		return t.(*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTicketsStore) Consume(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockTicketsStore) Revoke(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockTicketsStore) ListTickets() ([]model.Ticket, error) {
	args := m.Called()
	if t := args.Get(0); t != nil {
		return t.([]model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIdentityStore struct {
	mock.Mock
}

func (m *mockIdentityStore) CreateUser(username string) (*model.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdentityStore) DeleteUser(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockIdentityStore) ListUsers() ([]model.User, error) {
	args := m.Called()
	if u := args.Get(0); u != nil {
		return u.([]model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdentityStore) FetchUser(username string) (*model.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdentityStore) FetchUserByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIdentityStore) SetPassword(userID uuid.UUID, password string) error {
	return m.Called(userID, password).Error(0)
}

func (m *mockIdentityStore) VerifyPassword(username, password string) (uuid.UUID, error) {
	args := m.Called(username, password)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type mockRBACStore struct {
	mock.Mock
}

func (m *mockRBACStore) CreateRole(name string) (*model.Role, error) {
	args := m.Called(name)
	if r := args.Get(0); r != nil {
		return r.(*model.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRBACStore) DeleteRole(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockRBACStore) ListRoles() ([]model.Role, error) {
	args := m.Called()
	if r := args.Get(0); r != nil {
		return r.([]model.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRBACStore) FetchRole(name string) (*model.Role, error) {
	args := m.Called(name)
	if r := args.Get(0); r != nil {
		return r.(*model.Role), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRBACStore) AssignUserRole(userID, roleID uuid.UUID) error {
	return m.Called(userID, roleID).Error(0)
}

func (m *mockRBACStore) UnassignUserRole(userID, roleID uuid.UUID) error {
	return m.Called(userID, roleID).Error(0)
}

func (m *mockRBACStore) AssignTargetRole(targetID, roleID uuid.UUID) error {
	return m.Called(targetID, roleID).Error(0)
}

func (m *mockRBACStore) UnassignTargetRole(targetID, roleID uuid.UUID) error {
	return m.Called(targetID, roleID).Error(0)
}

func (m *mockRBACStore) IsAuthorized(userID, targetID uuid.UUID) (bool, error) {
	args := m.Called(userID, targetID)
	return args.Bool(0), args.Error(1)
}

type mockTargetsStore struct {
	mock.Mock
}

func (m *mockTargetsStore) CreateTarget(name string, options model.TargetOptions) (*model.Target, error) {
	args := m.Called(name, options)
	if t := args.Get(0); t != nil {
		return t.(*model.Target), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTargetsStore) DeleteTarget(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockTargetsStore) ListTargets() ([]model.Target, error) {
	args := m.Called()
	if t := args.Get(0); t != nil {
		return t.([]model.Target), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTargetsStore) Resolve(name string) (*model.Target, error) {
	args := m.Called(name)
	if t := args.Get(0); t != nil {
		return t.(*model.Target), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTargetsStore) EnsureBuiltins() error {
	return m.Called().Error(0)
}
