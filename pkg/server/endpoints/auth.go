package endpoints

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/audit"
	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`

	// TargetName records which target the caller intends to reach. The
	// issued ticket notes it but access is decided per request.
	TargetName string `json:"target_name" validate:"required"`
}

// RegisterAuthEndpoints registers the login route. It sits outside the
// admin token: users trade their password for a ticket here.
func RegisterAuthEndpoints(srv *server.Server, r *mux.Router) {
	r.HandleFunc("/auth/login", handleLogin(srv.IdentityStore, srv.TicketsStore, srv.Config)).Methods("POST")
}

func handleLogin(
	identity store.IdentityStore,
	tickets store.TicketsStore,
	cfg *config.GateConfig,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if _, err := identity.VerifyPassword(req.Username, req.Password); err != nil {
			if errors.Is(err, store.ErrInvalidCredential) {
				audit.Log(audit.AuthenticateEvent{
					Username: req.Username,
					ClientIP: r.RemoteAddr,
					Success:  false,
					Reason:   "invalid credentials",
				})
				respondWithError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			respondWithStoreError(w, err)
			return
		}

		ticket, err := tickets.Issue(req.Username, req.TargetName, ticketExpiry(nil, cfg), nil)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}

		audit.Log(audit.TicketEvent{
			TicketID:  ticket.ID.String(),
			Username:  ticket.Username,
			Target:    ticket.TargetName,
			Operation: "issue",
		})

		respondWithJSON(w, http.StatusCreated, IssueTicketResponse{
			ID:         ticket.ID,
			Secret:     ticket.PlainSecret,
			Username:   ticket.Username,
			TargetName: ticket.TargetName,
			Expiry:     ticket.Expiry,
			UsesLeft:   ticket.UsesLeft,
		})
	}
}
