package gateway

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/omnitron/omnitron-in-go/pkg/model"
	"github.com/omnitron/omnitron-in-go/pkg/server/store"
)

// Gate decides whether an authenticated identity may reach a named target.
// It is the sole enforcement point for target access: a ticket's origin
// target never widens or narrows what the role graph grants.
type Gate struct {
	identity store.IdentityStore
	rbac     store.RBACStore
	targets  store.TargetsStore
	log      zerolog.Logger
}

// NewGate creates a Gate.
func NewGate(identity store.IdentityStore, rbac store.RBACStore, targets store.TargetsStore, log zerolog.Logger) *Gate {
	return &Gate{identity: identity, rbac: rbac, targets: targets, log: log}
}

// Authorize resolves the target name and evaluates the role-set
// intersection for the user. On success it returns the target's forwarding
// configuration.
func (g *Gate) Authorize(username, targetName string) (*model.Target, error) {
	if targetName == "" {
		return nil, ErrMissingTarget
	}

	target, err := g.targets.Resolve(targetName)
	if err != nil {
		if errors.Is(err, store.ErrUnknownTarget) {
			g.log.Warn().Str("target", targetName).Msg("unknown target requested")
			return nil, ErrUnknownTarget
		}
		return nil, err
	}

	user, err := g.identity.FetchUser(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// User deleted after the ticket was issued
			return nil, ErrForbidden
		}
		return nil, err
	}

	authorized, err := g.rbac.IsAuthorized(user.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !authorized {
		g.log.Warn().
			Str("username", username).
			Str("target", targetName).
			Msg("target access denied")
		return nil, ErrForbidden
	}

	return target, nil
}
