package endpoints

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/omnitron/omnitron-in-go/pkg/audit"
	"github.com/omnitron/omnitron-in-go/pkg/config"
	"github.com/omnitron/omnitron-in-go/pkg/server"
)

const testAdminToken = "test-admin-token"

type apiFixture struct {
	srv      *server.Server
	identity *mockIdentityStore
	rbac     *mockRBACStore
	targets  *mockTargetsStore
	tickets  *mockTicketsStore
	health   *mockHealthStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	audit.SetEnabled(false)

	f := &apiFixture{
		identity: &mockIdentityStore{},
		rbac:     &mockRBACStore{},
		targets:  &mockTargetsStore{},
		tickets:  &mockTicketsStore{},
		health:   &mockHealthStore{},
	}

	cfg := &config.GateConfig{
		BindAddress:        "127.0.0.1",
		Port:               0,
		AdminToken:         testAdminToken,
		RateLimitPerSecond: 1000,
		RateLimitBurst:     1000,
	}

	f.srv = server.NewServer(cfg, nil, f.identity, f.rbac, f.targets, f.tickets, f.health, zerolog.Nop())
	RegisterAll(f.srv)
	return f
}

// do runs a request through the router with the admin token attached.
func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := f.request(method, path, body)
	req.Header.Set("X-Omnitron-Token", testAdminToken)
	rec := httptest.NewRecorder()
	f.srv.Router.ServeHTTP(rec, req)
	return rec
}

// doAnon runs a request without credentials.
func (f *apiFixture) doAnon(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.srv.Router.ServeHTTP(rec, f.request(method, path, body))
	return rec
}

func (f *apiFixture) request(method, path, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, server.AdminAPIPrefix+path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}
