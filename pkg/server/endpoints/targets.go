package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// CreateTargetRequest is the body of POST /targets
type CreateTargetRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=128"`
	URL       string `json:"url" validate:"required,url"`
	TLSMode   string `json:"tls_mode" validate:"omitempty,oneof=disabled preferred required"`
	TLSVerify *bool  `json:"tls_verify"`
}

// RegisterTargetsEndpoints registers target registry routes
func RegisterTargetsEndpoints(srv *server.Server, r *mux.Router) {
	targets := srv.TargetsStore

	r.HandleFunc("/targets", handleCreateTarget(targets)).Methods("POST")
	r.HandleFunc("/targets", handleListTargets(targets)).Methods("GET")
	r.HandleFunc("/targets/{id}", handleDeleteTarget(targets)).Methods("DELETE")
}

func handleCreateTarget(targets store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTargetRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		mode := model.TLSMode(req.TLSMode)
		if req.TLSMode == "" {
			mode = model.TLSModePreferred
		}
		verify := true
		if req.TLSVerify != nil {
			verify = *req.TLSVerify
		}

		target, err := targets.CreateTarget(req.Name, model.TargetOptions{
			Kind: model.TargetKindHTTP,
			URL:  req.URL,
			TLS: model.TLSOptions{
				Mode:   mode,
				Verify: verify,
			},
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusCreated, target)
	}
}

func handleListTargets(targets store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := targets.ListTargets()
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, all)
	}
}

func handleDeleteTarget(targets store.TargetsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := targets.DeleteTarget(id); err != nil {
			respondWithStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
