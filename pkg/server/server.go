package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// AdminAPIPrefix is the path prefix reserved for the gateway's own API.
// Requests outside it go through the forwarding pipeline.
const AdminAPIPrefix = "/@omnitron/api"

type Server struct {
	Config *config.GateConfig
	Router *mux.Router
	DB     *gorm.DB
	Log    zerolog.Logger

	IdentityStore store.IdentityStore
	RBACStore     store.RBACStore
	TargetsStore  store.TargetsStore
	TicketsStore  store.TicketsStore
	HealthStore   store.HealthStore

	srv *http.Server
}

func NewServer(
	cfg *config.GateConfig,
	db *gorm.DB,
	identity store.IdentityStore,
	rbac store.RBACStore,
	targets store.TargetsStore,
	tickets store.TicketsStore,
	health store.HealthStore,
	log zerolog.Logger,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.ListenAddr(),
		// No WriteTimeout: forwarded upstream responses may stream for
		// longer than any fixed bound.
		ReadHeaderTimeout: 15 * time.Second,
	}

	return &Server{
		Config:        cfg,
		Router:        router,
		DB:            db,
		Log:           log,
		IdentityStore: identity,
		RBACStore:     rbac,
		TargetsStore:  targets,
		TicketsStore:  tickets,
		HealthStore:   health,
		srv:           srv,
	}
}

// AdminRouter returns the subrouter for the administrative API.
func (s *Server) AdminRouter() *mux.Router {
	return s.Router.PathPrefix(AdminAPIPrefix).Subrouter()
}

// SetGatewayHandler installs the forwarding pipeline as the catch-all for
// everything outside the admin prefix. Call after all admin routes are
// registered; gorilla mux matches in registration order.
func (s *Server) SetGatewayHandler(h http.Handler) {
	s.Router.PathPrefix("/").Handler(h)
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
