package auth

import (
	"context"

	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// PKCEFlow implements the authorization code grant for public clients.
// No client secret is sent at any point; the code exchange carries the
// verifier matching the challenge embedded in the consent URL.
type PKCEFlow struct {
	cred   Credential
	conf   Config
	oauth  *oauth2.Config
	cache  *Cache
	slot   slot
	single singleflight.Group
}

var _ Flow = (*PKCEFlow)(nil)

// NewPKCEFlow constructs the flow and hydrates the token slot from cache
// when a usable entry exists. The credential must come from
// [NewPKCECredential] so a verifier/challenge pair is present.
func NewPKCEFlow(cred Credential, conf Config, cache *Cache) *PKCEFlow {
	f := &PKCEFlow{
		cred:  cred,
		conf:  conf,
		cache: cache,
		oauth: &oauth2.Config{
			ClientID:    cred.ClientID(),
			RedirectURL: conf.RedirectURI,
			Scopes:      conf.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  conf.authURL(),
				TokenURL: conf.tokenURL(),
				// client_id travels in the form body; there is no secret
				// to put in a Basic header.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
	hydrate(cache, f.ID(), conf.Scopes, &f.slot)
	return f
}

func (f *PKCEFlow) ID() string { return "pkce" }

// AuthURL builds the consent URL including the S256 code challenge.
func (f *PKCEFlow) AuthURL(showDialog bool) string {
	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(f.cred.Verifier())}
	if showDialog {
		opts = append(opts, oauth2.SetAuthURLParam("show_dialog", "true"))
	}
	return f.oauth.AuthCodeURL(f.conf.State, opts...)
}

// RequestAccessToken exchanges the authorization code, proving possession
// of the verifier for the challenge sent on the consent URL.
func (f *PKCEFlow) RequestAccessToken(ctx context.Context, code string) error {
	tok, err := f.oauth.Exchange(ctx, code, oauth2.VerifierOption(f.cred.Verifier()))
	if err != nil {
		return providerErr(err)
	}
	persist(f.cache, f.ID(), &f.slot, fromOAuth2(tok, f.conf.Scopes))
	return nil
}

// Refresh uses the stored refresh token to obtain a new Token. Concurrent
// callers observing an expired token share a single exchange.
func (f *PKCEFlow) Refresh(ctx context.Context) error {
	_, err, _ := f.single.Do("refresh", func() (any, error) {
		cur := f.slot.get()
		if cur.RefreshToken == "" {
			return nil, shared.ErrNoRefreshToken
		}

		src := f.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cur.RefreshToken})
		tok, err := src.Token()
		if err != nil {
			return nil, providerErr(err)
		}

		next := fromOAuth2(tok, cur.Scopes)
		if next.RefreshToken == "" {
			next.RefreshToken = cur.RefreshToken
		}
		persist(f.cache, f.ID(), &f.slot, next)
		return nil, nil
	})
	return err
}

func (f *PKCEFlow) Token() Token     { return f.slot.get() }
func (f *PKCEFlow) SetToken(t Token) { f.slot.set(t) }

func (f *PKCEFlow) Scopes() []string { return f.conf.Scopes }
func (f *PKCEFlow) State() string    { return f.conf.State }
