package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Gianmy02/MedSafe/cmd/medsafectl/internal/auth"
	"github.com/Gianmy02/MedSafe/pkg/sdk"
)

const bootstrapTimeout = 15 * time.Second

// Provider wires the session, the authorized HTTP client and the SDK client
// for one process. Everything is built lazily and at most once.
type Provider struct {
	settings    sdk.Settings
	bearerToken string // ephemeral token that bypasses the identity response (CI)
	store       sdk.CredentialStore
	logger      *slog.Logger

	credentialsOnce sync.Once
	credentials     *sdk.Credentials
	credentialsErr  error

	sessionOnce sync.Once
	session     *sdk.Session
	jar         http.CookieJar
	sessionErr  error

	bootstrapOnce sync.Once

	sdkOnce   sync.Once
	sdkClient *sdk.Client
	sdkErr    error

	blobsOnce sync.Once
	blobs     *sdk.BlobRegistry
}

// NewProvider constructs a Provider for the given settings. A nil store
// means the default file store under ~/.medsafe.
func NewProvider(settings sdk.Settings, store sdk.CredentialStore, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{settings: settings, store: store, logger: logger}
}

// SetBearerToken injects a static bearer token, for scripted use.
func (p *Provider) SetBearerToken(token string) {
	p.bearerToken = token
}

func (p *Provider) Settings() sdk.Settings {
	return p.settings
}

// Store returns the credential store, opening the default one if needed.
func (p *Provider) Store() (sdk.CredentialStore, error) {
	if p.store != nil {
		return p.store, nil
	}
	store, err := auth.NewFileStore()
	if err != nil {
		return nil, fmt.Errorf("failed to create credential store: %w", err)
	}
	p.store = store
	return store, nil
}

// Credentials loads the stored sign-in once. Not being logged in is not an
// error: it yields nil.
func (p *Provider) Credentials() (*sdk.Credentials, error) {
	p.credentialsOnce.Do(func() {
		store, err := p.Store()
		if err != nil {
			p.credentialsErr = err
			return
		}

		creds, err := store.LoadCredentials()
		if err != nil {
			if !errors.Is(err, auth.ErrNotLoggedIn) {
				p.credentialsErr = err
			}
			return
		}
		if creds.Environment != "" && creds.Environment != p.settings.Name {
			p.logger.Warn("ignoring credentials saved for another environment",
				"saved", creds.Environment, "current", p.settings.Name)
			return
		}
		p.credentials = creds
	})
	if p.credentialsErr != nil {
		return nil, p.credentialsErr
	}
	return p.credentials, nil
}

// Session returns the process-wide session, with the cookie jar seeded from
// the stored credentials.
func (p *Provider) Session() (*sdk.Session, error) {
	p.sessionOnce.Do(func() {
		creds, err := p.Credentials()
		if err != nil {
			// A broken credentials file degrades to an anonymous session.
			p.logger.Warn("could not load credentials", "error", err)
			creds = nil
		}

		jar, err := sdk.NewCookieJar(p.settings, creds)
		if err != nil {
			p.sessionErr = err
			return
		}
		p.jar = jar

		opts := []sdk.SessionOption{
			sdk.WithSessionHTTPClient(&http.Client{Jar: jar, Timeout: 10 * time.Second}),
			sdk.WithSessionLogger(p.logger),
		}
		switch {
		case p.bearerToken != "":
			opts = append(opts, sdk.WithStaticToken(p.bearerToken))
		case creds != nil && creds.BearerToken != "":
			opts = append(opts, sdk.WithImplicitToken(creds.BearerToken))
		}
		p.session = sdk.NewSession(p.settings, opts...)
	})
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	return p.session, nil
}

// Bootstrap starts the identity query in the background, once, and returns
// the readiness future.
func (p *Provider) Bootstrap(ctx context.Context) (*sdk.Ready, error) {
	session, err := p.Session()
	if err != nil {
		return nil, err
	}
	p.bootstrapOnce.Do(func() {
		go session.FetchPrincipal(ctx)
	})
	return session.Ready(), nil
}

// WaitReady blocks until the bootstrap resolved. A nil principal means
// there is no active session.
func (p *Provider) WaitReady(ctx context.Context) (*sdk.Principal, error) {
	ready, err := p.Bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	ctx, cancel := ensureTimeout(ctx, bootstrapTimeout)
	defer cancel()
	return ready.Wait(ctx)
}

// SDKClient returns the backend client. Its transport runs every request
// through the Request Authorizer.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	p.sdkOnce.Do(func() {
		session, err := p.Session()
		if err != nil {
			p.sdkErr = err
			return
		}
		httpClient := sdk.NewAuthorizedHTTPClient(p.settings, session, p.jar)
		p.sdkClient = sdk.NewClient(p.settings.APIURL,
			sdk.WithHTTPClient(httpClient),
			sdk.WithLogger(p.logger),
		)
	})
	if p.sdkErr != nil {
		return nil, p.sdkErr
	}
	return p.sdkClient, nil
}

// Blobs returns the process-wide blob registry.
func (p *Provider) Blobs() *sdk.BlobRegistry {
	p.blobsOnce.Do(func() {
		p.blobs = sdk.NewBlobRegistry(p.settings.IdentityOrigin())
	})
	return p.blobs
}

// Close releases outstanding blob URLs.
func (p *Provider) Close() error {
	if p.blobs == nil {
		return nil
	}
	return p.blobs.Close()
}

func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, timeout)
}
