package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// IdentityPath is the EasyAuth identity-info endpoint, relative to the auth origin.
const IdentityPath = "/.auth/me"

const maxIdentityBody = 1 << 20

// Session runs the one-time identity bootstrap and caches the bearer token
// it extracts for the Request Authorizer.
type Session struct {
	identityURL string
	enabled     bool
	httpClient  *http.Client
	logger      *slog.Logger

	once  sync.Once
	ready *Ready

	mu       sync.RWMutex
	token    *oauth2.Token
	static   bool
	implicit bool
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithSessionHTTPClient sets the client used for the identity request.
// It should carry the cookie jar holding the provider session.
func WithSessionHTTPClient(client *http.Client) SessionOption {
	return func(s *Session) {
		s.httpClient = client
	}
}

// WithSessionLogger sets the logger for bootstrap diagnostics.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStaticToken seeds the token cache, bypassing the identity response
// as token source (CI and scripted use).
func WithStaticToken(token string) SessionOption {
	return func(s *Session) {
		if token != "" {
			s.token = bearer(token)
			s.static = true
		}
	}
}

// WithImplicitToken seeds the token cache with a token obtained through the
// direct sign-in redirect. A token returned by the identity query replaces
// it. When the identity query fails, the session falls back to a minimal
// principal carrying that token.
func WithImplicitToken(token string) SessionOption {
	return func(s *Session) {
		if token != "" {
			s.token = bearer(token)
			s.implicit = true
		}
	}
}

// NewSession creates a Session for the given settings. Nothing is fetched
// until FetchPrincipal is called.
func NewSession(settings Settings, opts ...SessionOption) *Session {
	s := &Session{
		identityURL: settings.IdentityOrigin() + IdentityPath,
		enabled:     settings.Auth.Enabled,
		ready:       NewReady(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.httpClient == nil {
		s.httpClient = defaultHTTPClient()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// FetchPrincipal performs the identity query once and returns its outcome.
// Failures of any kind, a 401 included, yield a nil principal. The ready
// signal fires exactly once in every case. Later calls return the first
// outcome without touching the network; there is no retry.
func (s *Session) FetchPrincipal(ctx context.Context) *Principal {
	s.once.Do(func() {
		// The bootstrap is not cancellable once started.
		principal := s.bootstrap(context.WithoutCancel(ctx))
		s.ready.resolve(principal)
	})
	return s.ready.Principal()
}

// Ready exposes the one-shot completion future.
func (s *Session) Ready() *Ready {
	return s.ready
}

// CachedToken returns a copy of the cached bearer token, or nil.
func (s *Session) CachedToken() *oauth2.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return nil
	}
	tok := *s.token
	return &tok
}

// State snapshots what the Request Authorizer needs from the session.
func (s *Session) State() SessionState {
	return SessionState{Token: s.CachedToken()}
}

func (s *Session) bootstrap(ctx context.Context) *Principal {
	if !s.enabled {
		s.logger.Debug("authentication disabled, using local principal")
		return LocalPrincipal()
	}

	principal, token, err := s.fetch(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			s.logger.Debug("no active session", "url", s.identityURL)
		} else {
			s.logger.Warn("identity bootstrap failed", "url", s.identityURL, "error", err)
		}
		if s.implicit {
			s.logger.Warn("using sign-in token without provider roles")
			return implicitPrincipal(s.CachedToken().AccessToken)
		}
		return nil
	}

	if token != "" {
		s.cacheToken(token)
	}
	return principal
}

func (s *Session) fetch(ctx context.Context) (*Principal, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.identityURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", newAPIError(req, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxIdentityBody))
	if err != nil {
		return nil, "", fmt.Errorf("read identity response: %w", err)
	}

	payload, err := decodePayload(body)
	if err != nil {
		return nil, "", err
	}

	principal, token := principalFromPayload(payload)
	return principal, token, nil
}

// cacheToken stores the bootstrap token. It runs once per bootstrap cycle and
// never replaces a static token.
func (s *Session) cacheToken(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.static {
		s.logger.Debug("keeping static bearer token")
		return
	}
	s.token = bearer(raw)
	s.implicit = false
}

func bearer(raw string) *oauth2.Token {
	return &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
}

// defaultHTTPClient returns an HTTP client with a reasonable timeout for identity calls.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}
