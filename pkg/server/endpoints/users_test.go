package endpoints

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

func TestCreateUser(t *testing.T) {
	f := newAPIFixture(t)
	f.identity.On("CreateUser", "alice").Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)

	rec := f.do("POST", "/users", `{"username":"alice"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var user model.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
	assert.Equal(t, "alice", user.Username)
}

func TestCreateUserConflict(t *testing.T) {
	f := newAPIFixture(t)
	f.identity.On("CreateUser", "alice").Return(nil, store.ErrConflict)

	rec := f.do("POST", "/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUserValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do("POST", "/users", `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.identity.AssertNotCalled(t, "CreateUser")
}

func TestListUsers(t *testing.T) {
	f := newAPIFixture(t)
	f.identity.On("ListUsers").Return([]model.User{
		{ID: uuid.New(), Username: "alice"},
		{ID: uuid.New(), Username: "bob"},
	}, nil)

	rec := f.do("GET", "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var users []model.User
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&users))
	assert.Len(t, users, 2)
}

func TestDeleteUser(t *testing.T) {
	f := newAPIFixture(t)
	id := uuid.New()
	f.identity.On("DeleteUser", id).Return(nil)

	rec := f.do("DELETE", "/users/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteUserBadID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do("DELETE", "/users/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.identity.AssertNotCalled(t, "DeleteUser")
}

func TestSetPassword(t *testing.T) {
	f := newAPIFixture(t)
	id := uuid.New()
	f.identity.On("FetchUserByID", id).Return(&model.User{ID: id, Username: "alice"}, nil)
	f.identity.On("SetPassword", id, "correct horse battery").Return(nil)

	rec := f.do("POST", "/users/"+id.String()+"/password", `{"password":"correct horse battery"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetPasswordUnknownUser(t *testing.T) {
	f := newAPIFixture(t)
	id := uuid.New()
	f.identity.On("FetchUserByID", id).Return(nil, store.ErrNotFound)

	rec := f.do("POST", "/users/"+id.String()+"/password", `{"password":"correct horse battery"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	f.identity.AssertNotCalled(t, "SetPassword")
}

func TestSetPasswordTooShort(t *testing.T) {
	f := newAPIFixture(t)
	id := uuid.New()

	rec := f.do("POST", "/users/"+id.String()+"/password", `{"password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.identity.AssertNotCalled(t, "SetPassword")
}

func TestAdminTokenRequired(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.doAnon("GET", "/users", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	f.identity.AssertNotCalled(t, "ListUsers")
}
