package endpoints

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/audit"
	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// IssueTicketRequest is the body of POST /tickets
type IssueTicketRequest struct {
	Username   string `json:"username" validate:"required"`
	TargetName string `json:"target_name" validate:"required"`

	// TTLSeconds overrides the configured default lifetime. Zero means
	// the ticket never expires.
	TTLSeconds *int `json:"ttl_seconds" validate:"omitempty,min=0"`

	// UsesLeft bounds how many requests the ticket can authenticate.
	// Omitted means unlimited.
	UsesLeft *int `json:"uses_left" validate:"omitempty,min=1"`
}

// IssueTicketResponse carries the plaintext secret. It is shown exactly
// once; only a digest is stored.
type IssueTicketResponse struct {
	ID         uuid.UUID  `json:"id"`
	Secret     string     `json:"secret"`
	Username   string     `json:"username"`
	TargetName string     `json:"target_name"`
	Expiry     *time.Time `json:"expiry,omitempty"`
	UsesLeft   *int       `json:"uses_left,omitempty"`
}

// RegisterTicketsEndpoints registers ticket management routes
func RegisterTicketsEndpoints(srv *server.Server, r *mux.Router) {
	r.HandleFunc("/tickets", handleIssueTicket(srv.TicketsStore, srv.IdentityStore, srv.TargetsStore, srv.Config)).Methods("POST")
	r.HandleFunc("/tickets", handleListTickets(srv.TicketsStore)).Methods("GET")
	r.HandleFunc("/tickets/{id}", handleRevokeTicket(srv.TicketsStore)).Methods("DELETE")
}

func ticketExpiry(ttlSeconds *int, cfg *config.GateConfig) *time.Time {
	ttl := cfg.DefaultTicketTTL()
	if ttlSeconds != nil {
		ttl = time.Duration(*ttlSeconds) * time.Second
	}
	if ttl <= 0 {
		return nil
	}
	expiry := time.Now().Add(ttl)
	return &expiry
}

func handleIssueTicket(
	tickets store.TicketsStore,
	identity store.IdentityStore,
	targets store.TargetsStore,
	cfg *config.GateConfig,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IssueTicketRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		// Tickets bind to existing users and targets only
		if _, err := identity.FetchUser(req.Username); err != nil {
			respondWithStoreError(w, err)
			return
		}
		if _, err := targets.Resolve(req.TargetName); err != nil {
			respondWithStoreError(w, err)
			return
		}

		ticket, err := tickets.Issue(req.Username, req.TargetName, ticketExpiry(req.TTLSeconds, cfg), req.UsesLeft)
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

// TicketSummary is the list representation of a ticket. Secrets and their
// digests never appear here.
type TicketSummary struct {
	ID         uuid.UUID  `json:"id"`
	Username   string     `json:"username"`
	TargetName string     `json:"target_name"`
	Expiry     *time.Time `json:"expiry,omitempty"`
	UsesLeft   *int       `json:"uses_left,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func summarize(tickets []model.Ticket) []TicketSummary {
	summaries := make([]TicketSummary, 0, len(tickets))
	for _, t := range tickets {
		summaries = append(summaries, TicketSummary{
			ID:         t.ID,
			Username:   t.Username,
			TargetName: t.TargetName,
			Expiry:     t.Expiry,
			UsesLeft:   t.UsesLeft,
			CreatedAt:  t.CreatedAt,
		})
	}
	return summaries
}

func handleListTickets(tickets store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := tickets.ListTickets()
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, summarize(all))
	}
}

func handleRevokeTicket(tickets store.TicketsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		if err := tickets.Revoke(id); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.TicketEvent{TicketID: id.String(), Operation: "revoke"})
		w.WriteHeader(http.StatusNoContent)
	}
}
