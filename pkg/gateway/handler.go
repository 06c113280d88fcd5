package gateway

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/omnitron/omnitron-in-go/pkg/audit"
	"github.com/omnitron/omnitron-in-go/pkg/metrics"
	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server"
)

// Handler is the gateway's request pipeline. Every non-admin request runs
// through it: authenticate, authorize, forward.
type Handler struct {
	resolver  *Resolver
	gate      *Gate
	forwarder *Forwarder
	recorder  metrics.Recorder
	log       zerolog.Logger
}

// NewHandler assembles the pipeline.
func NewHandler(resolver *Resolver, gate *Gate, forwarder *Forwarder, recorder metrics.Recorder, log zerolog.Logger) *Handler {
	return &Handler{
		resolver:  resolver,
		gate:      gate,
		forwarder: forwarder,
		recorder:  recorder,
		log:       log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	clientIP := remoteIP(req)

	identity, err := h.resolver.Resolve(req)
	if err != nil {
		audit.Log(audit.AuthenticateEvent{
			ClientIP: clientIP,
			Success:  false,
			Reason:   err.Error(),
		})
		h.reject(w, req, err)
		return
	}

	targetName := req.URL.Query().Get(TargetQueryParam)
	target, err := h.gate.Authorize(identity.Username, targetName)
	if err != nil {
		if errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnknownTarget) || errors.Is(err, ErrMissingTarget) {
			audit.Log(audit.AuthorizeEvent{
				Username: identity.Username,
				Target:   targetName,
				ClientIP: clientIP,
				Allowed:  false,
				Reason:   err.Error(),
			})
		}
		h.reject(w, req, err)
		return
	}

	audit.Log(audit.AuthorizeEvent{
		Username: identity.Username,
		Target:   target.Name,
		ClientIP: clientIP,
		Allowed:  true,
	})
	// The builtin WebAdmin target is the gateway's own API, not an
	// upstream to dial.
	if target.Options.Kind == model.TargetKindWebAdmin {
		http.Redirect(w, req, server.AdminAPIPrefix+"/", http.StatusTemporaryRedirect)
		return
	}

	h.log.Debug().
		Str("username", identity.Username).
		Str("target", target.Name).
		Str("path", req.URL.Path).
		Msg("forwarding request")
	h.recorder.RecordForwarded(target.Name)
	h.forwarder.Forward(w, req, target)
}

func remoteIP(req *http.Request) string {
	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}

func (h *Handler) reject(w http.ResponseWriter, req *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Str("path", req.URL.Path).Msg("pipeline error")
	}
	h.recorder.RecordRejection(ReasonFor(err))
	writeError(w, err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
