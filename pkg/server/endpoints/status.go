package endpoints

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// RegisterStatusEndpoints registers the health route
func RegisterStatusEndpoints(srv *server.Server, r *mux.Router) {
	r.HandleFunc("/status", handleStatus(srv.HealthStore)).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("OMNITRON_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		if err := health.Ping(); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, StatusResponse{
				Status:  "error",
				Version: version,
			})
			return
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{
			Status:  "ok",
			Version: version,
		})
	}
}
