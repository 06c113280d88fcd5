// Package gateway implements the per-request proxy pipeline.
//
// Every inbound request passes through a strictly linear pipeline:
//
//	Authenticating → Authorizing → Routing → Forwarding
//
// The Resolver extracts a ticket secret from the request (Authorization
// header first, then query parameter) and validates it against the ticket
// store. The Gate resolves the requested target and evaluates the RBAC
// role-set intersection. The Forwarder relays the request to the resolved
// upstream verbatim, minus the gateway's own control query parameters.
//
// A ticket grants identity only; which targets that identity may reach is
// decided solely by the role graph. No state is revisited and no
// authentication is retried within one request.
package gateway
