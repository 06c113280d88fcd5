package gateway

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/omnitron/omnitron-in-go/pkg/metrics"
	"github.com/omnitron/omnitron-in-go/pkg/model"
)

// Forwarder proxies requests to authorized upstream targets. Each target
// gets its own circuit breaker so a flapping upstream sheds load quickly
// without affecting the others.
type Forwarder struct {
	responseTimeout time.Duration
	recorder        metrics.Recorder
	log             zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[*http.Response]
}

// NewForwarder creates a Forwarder. responseTimeout bounds how long the
// forwarder waits for upstream response headers.
func NewForwarder(responseTimeout time.Duration, recorder metrics.Recorder, log zerolog.Logger) *Forwarder {
	return &Forwarder{
		responseTimeout: responseTimeout,
		recorder:        recorder,
		log:             log,
		breakers:        make(map[string]*gobreaker.CircuitBreaker[*http.Response]),
	}
}

// upstreamURL computes the scheme and host to dial for a target, honoring
// its TLS policy. The "preferred" mode keeps whatever scheme the configured
// URL carries; "disabled" and "required" force http and https respectively.
func upstreamURL(target *model.Target) (*url.URL, error) {
	u, err := url.Parse(target.Options.URL)
	if err != nil {
		return nil, err
	}
	switch target.Options.TLS.Mode {
	case model.TLSModeDisabled:
		u.Scheme = "http"
	case model.TLSModeRequired:
		u.Scheme = "https"
	case model.TLSModePreferred:
		if u.Scheme == "" {
			u.Scheme = "http"
		}
	}
	return u, nil
}

// stripControlParams removes the gateway's own query parameters before the
// request goes upstream. Upstreams never see the ticket secret.
func stripControlParams(u *url.URL) {
	q := u.Query()
	if len(q) == 0 {
		return
	}
	q.Del(TicketQueryParam)
	q.Del(TargetQueryParam)
	u.RawQuery = q.Encode()
}

func (f *Forwarder) breaker(name string) *gobreaker.CircuitBreaker[*http.Response] {
	f.mu.Lock()
	defer f.mu.Unlock()
	cb, ok := f.breakers[name]
	if !ok {
		cb = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:    name,
			Timeout: 15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				f.log.Warn().
					Str("target", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("upstream circuit state changed")
			},
		})
		f.breakers[name] = cb
	}
	return cb
}

type breakerTransport struct {
	cb   *gobreaker.CircuitBreaker[*http.Response]
	base http.RoundTripper
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.cb.Execute(func() (*http.Response, error) {
		return t.base.RoundTrip(req)
	})
}

func (f *Forwarder) transport(target *model.Target) http.RoundTripper {
	base := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: 10 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: f.responseTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !target.Options.TLS.Verify,
		},
	}
	return &breakerTransport{cb: f.breaker(target.Name), base: base}
}

// Forward proxies req to the target's upstream and writes the response to w.
// The incoming request path and body pass through unchanged; only the
// gateway's control parameters are removed from the query string.
func (f *Forwarder) Forward(w http.ResponseWriter, req *http.Request, target *model.Target) {
	upstream, err := upstreamURL(target)
	if err != nil {
		f.log.Error().Err(err).Str("target", target.Name).Msg("bad upstream url")
		f.recorder.RecordUpstreamFailure(target.Name)
		writeError(w, ErrUpstreamUnavailable)
		return
	}

	proxy := &httputil.ReverseProxy{
		Director: func(outbound *http.Request) {
			outbound.URL.Scheme = upstream.Scheme
			outbound.URL.Host = upstream.Host
			if upstream.Path != "" && upstream.Path != "/" {
				outbound.URL.Path = singleJoin(upstream.Path, outbound.URL.Path)
			}
			outbound.Host = upstream.Host
			stripControlParams(outbound.URL)
			// Only the gateway's own scheme is stripped; a client's
			// Basic or Bearer credential is payload for the upstream.
			scheme, _, found := strings.Cut(outbound.Header.Get("Authorization"), " ")
			if found && strings.EqualFold(scheme, AuthScheme) {
				outbound.Header.Del("Authorization")
			}
		},
		Transport: f.transport(target),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			f.log.Warn().Err(err).Str("target", target.Name).Msg("upstream request failed")
			f.recorder.RecordUpstreamFailure(target.Name)
			writeError(w, ErrUpstreamUnavailable)
		},
	}

	start := time.Now()
	proxy.ServeHTTP(w, req)
	f.recorder.RecordUpstreamLatency(time.Since(start))
}

func singleJoin(prefix, path string) string {
	switch {
	case strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, "/"):
		return prefix + path[1:]
	case !strings.HasSuffix(prefix, "/") && !strings.HasPrefix(path, "/"):
		return prefix + "/" + path
	}
	return prefix + path
}
