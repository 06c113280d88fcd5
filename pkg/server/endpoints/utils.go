package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

var validate = validator.New()

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// decodeAndValidate parses a JSON request body into dst and runs struct
// validation. It writes a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// pathUUID parses a uuid path variable, writing a 400 response on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// respondWithStoreError maps common store errors onto HTTP statuses.
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrUnknownTarget):
		respondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, "already exists")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error")
	}
}
