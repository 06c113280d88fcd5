package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// CreateRoleRequest is the body of POST /roles
type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

// RegisterRolesEndpoints registers role and assignment management routes
func RegisterRolesEndpoints(srv *server.Server, r *mux.Router) {
	rbac := srv.RBACStore

	r.HandleFunc("/roles", handleCreateRole(rbac)).Methods("POST")
	r.HandleFunc("/roles", handleListRoles(rbac)).Methods("GET")
	r.HandleFunc("/roles/{id}", handleDeleteRole(rbac)).Methods("DELETE")

	r.HandleFunc("/roles/{id}/users/{userID}", handleAssignUserRole(rbac)).Methods("POST")
	r.HandleFunc("/roles/{id}/users/{userID}", handleUnassignUserRole(rbac)).Methods("DELETE")
	r.HandleFunc("/roles/{id}/targets/{targetID}", handleAssignTargetRole(rbac)).Methods("POST")
	r.HandleFunc("/roles/{id}/targets/{targetID}", handleUnassignTargetRole(rbac)).Methods("DELETE")
}

func handleCreateRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoleRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		role, err := rbac.CreateRole(req.Name)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, role)
	}
}

func handleListRoles(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := rbac.ListRoles()
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, roles)
	}
}

func handleDeleteRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := rbac.DeleteRole(id); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAssignUserRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		userID, ok := pathUUID(w, r, "userID")
		if !ok {
			return
		}
		if err := rbac.AssignUserRole(userID, roleID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUnassignUserRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		userID, ok := pathUUID(w, r, "userID")
		if !ok {
			return
		}
		if err := rbac.UnassignUserRole(userID, roleID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAssignTargetRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		targetID, ok := pathUUID(w, r, "targetID")
		if !ok {
			return
		}
		if err := rbac.AssignTargetRole(targetID, roleID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUnassignTargetRole(rbac store.RBACStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		targetID, ok := pathUUID(w, r, "targetID")
		if !ok {
			return
		}
		if err := rbac.UnassignTargetRole(targetID, roleID); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
