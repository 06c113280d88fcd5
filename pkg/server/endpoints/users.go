package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/audit"
	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=128"`
}

// SetPasswordRequest is the body of POST /users/{id}/password
type SetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// RegisterUsersEndpoints registers user management routes
func RegisterUsersEndpoints(srv *server.Server, r *mux.Router) {
	identity := srv.IdentityStore

	r.HandleFunc("/users", handleCreateUser(identity)).Methods("POST")
	r.HandleFunc("/users", handleListUsers(identity)).Methods("GET")
	r.HandleFunc("/users/{id}", handleDeleteUser(identity)).Methods("DELETE")
	r.HandleFunc("/users/{id}/password", handleSetPassword(identity)).Methods("POST")
}

func handleCreateUser(identity store.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := identity.CreateUser(req.Username)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, user)
	}
}

func handleListUsers(identity store.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := identity.ListUsers()
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

func handleDeleteUser(identity store.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := identity.DeleteUser(id); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSetPassword(identity store.IdentityStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		var req SetPasswordRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		user, err := identity.FetchUserByID(id)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if err := identity.SetPassword(user.ID, req.Password); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.PasswordEvent{Username: user.Username, Success: true})
		w.WriteHeader(http.StatusNoContent)
	}
}
