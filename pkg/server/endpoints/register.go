package endpoints

import (
	"github.com/gorilla/mux"

	"github.com/omnitron/omnitron-in-go/pkg/server"
	"github.com/omnitron/omnitron-in-go/pkg/server/middleware"
)

// RegisterAll registers the administrative API on the server's admin
// subrouter. Every route except login sits behind the admin token; all of
// them share the per-client rate limit.
func RegisterAll(srv *server.Server) *mux.Router {
	admin := srv.AdminRouter()

	limiter := middleware.NewRateLimiter(
		srv.Config.RateLimitPerSecond,
		srv.Config.RateLimitBurst,
		srv.Config.IsTrustedProxy,
	)
	admin.Use(limiter.Middleware)

	RegisterAuthEndpoints(srv, admin)
	RegisterStatusEndpoints(srv, admin)

	tokenAuth := middleware.NewAdminTokenAuthenticator(srv.Config.AdminToken)
	protected := admin.NewRoute().Subrouter()
	protected.Use(tokenAuth.Middleware)

	RegisterUsersEndpoints(srv, protected)
	RegisterRolesEndpoints(srv, protected)
	RegisterTargetsEndpoints(srv, protected)
	RegisterTicketsEndpoints(srv, protected)

	return admin
}
