package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"golang.org/x/oauth2"
)

const (
	// SpotifyAuthURL is the provider's consent screen endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"
	// SpotifyTokenURL is the provider's token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"
)

// Flow is the capability set common to all authentication variants.
//
// A Flow is bound to one [Credential] and owns one shared Token slot.
// Token, SetToken and Refresh are safe for concurrent use; the remaining
// methods are called during the (sequential) interactive login.
type Flow interface {
	// ID returns the flow-identity string used to namespace the token cache.
	ID() string

	// AuthURL builds the provider consent URL embedding redirect URI,
	// requested scopes and the anti-CSRF state. Variants without an
	// interactive step return "".
	AuthURL(showDialog bool) string

	// RequestAccessToken exchanges a one-time authorization code for a
	// Token, stores it in the shared slot and persists it to cache.
	// ClientCredsFlow ignores the code and performs its grant instead.
	RequestAccessToken(ctx context.Context, code string) error

	// Refresh obtains a new Token without user interaction. Fails with
	// [shared.ErrNoRefreshToken] when the variant supports refresh tokens
	// but none is stored.
	Refresh(ctx context.Context) error

	// Token returns the current Token verbatim. Validity checks and
	// refresh triggering are the caller's responsibility.
	Token() Token

	// SetToken overrides the shared slot, for tests and out-of-band tokens.
	SetToken(t Token)

	// Scopes returns the scopes this flow was configured to request.
	Scopes() []string

	// State returns the anti-CSRF state for this authentication attempt.
	State() string
}

// Credential holds the static identity needed to authenticate.
// Immutable after construction.
type Credential struct {
	clientID     string
	clientSecret string
	verifier     string
	challenge    string
}

// NewCredential creates a confidential-client credential (id + secret).
func NewCredential(clientID, clientSecret string) (Credential, error) {
	if clientID == "" {
		return Credential{}, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}
	if clientSecret == "" {
		return Credential{}, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}
	return Credential{clientID: clientID, clientSecret: clientSecret}, nil
}

// NewPKCECredential creates a public-client credential with a freshly
// generated PKCE verifier/challenge pair in place of a secret.
func NewPKCECredential(clientID string) (Credential, error) {
	if clientID == "" {
		return Credential{}, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}
	verifier := oauth2.GenerateVerifier()
	return Credential{
		clientID:  clientID,
		verifier:  verifier,
		challenge: oauth2.S256ChallengeFromVerifier(verifier),
	}, nil
}

// ClientID returns the application client id.
func (c Credential) ClientID() string { return c.clientID }

// Verifier returns the PKCE code verifier, empty for non-PKCE credentials.
func (c Credential) Verifier() string { return c.verifier }

// Challenge returns the PKCE code challenge derived from the verifier.
func (c Credential) Challenge() string { return c.challenge }

// Config carries the per-attempt OAuth parameters shared by all variants.
type Config struct {
	RedirectURI string
	Scopes      []string
	// State is the anti-CSRF token, generated once per authentication
	// attempt. The redirect callback must present the same value.
	State string

	// AuthURL and TokenURL override the provider endpoints. Empty values
	// use the Spotify defaults; tests point these at a local server.
	AuthURL  string
	TokenURL string
}

// NewConfig creates a Config with a fresh anti-CSRF state token.
func NewConfig(redirectURI string, scopes ...string) Config {
	return Config{
		RedirectURI: redirectURI,
		Scopes:      scopes,
		State:       shared.GenerateID(),
	}
}

func (c Config) authURL() string {
	if c.AuthURL != "" {
		return c.AuthURL
	}
	return SpotifyAuthURL
}

func (c Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return SpotifyTokenURL
}

// slot is the shared mutable Token cell jointly owned by a flow (writer)
// and concurrent API callers (readers). The mutex covers only the
// in-memory read or write, never the network I/O of an exchange, so a
// slow token endpoint does not block unrelated readers.
type slot struct {
	mu  sync.Mutex
	tok Token
}

func (s *slot) get() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok
}

func (s *slot) set(t Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = t
}

// ProviderError is a structured error/error_description pair returned by
// the provider's token endpoint.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider error: %s", e.Code)
	}
	return fmt.Sprintf("provider error: %s - %s", e.Code, e.Description)
}

func (e *ProviderError) Unwrap() error { return shared.ErrAuthFailed }

// providerErr classifies a token-endpoint failure: structured provider
// responses become [*ProviderError], everything else stays a wrapped
// transport or parse error.
func providerErr(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorCode != "" {
			return &ProviderError{Code: re.ErrorCode, Description: re.ErrorDescription}
		}
		return fmt.Errorf("%w: token endpoint returned %s", shared.ErrAuthFailed, re.Response.Status)
	}
	return fmt.Errorf("token exchange failed: %w", err)
}

// hydrate loads a cached token into the slot when the cache holds a usable
// entry covering the requested scopes. Cache failures are advisory.
func hydrate(cache *Cache, flowID string, scopes []string, s *slot) {
	if cache == nil {
		return
	}
	tok, err := cache.Load(flowID)
	if err != nil || !tok.HasScopes(scopes...) {
		return
	}
	s.set(tok)
}

// persist stores a token in the slot and writes it through to the cache.
// Cache writes are best effort; the in-memory token is authoritative.
func persist(cache *Cache, flowID string, s *slot, t Token) {
	s.set(t)
	if cache != nil {
		_ = cache.Save(flowID, t)
	}
}
