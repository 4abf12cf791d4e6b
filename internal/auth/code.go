package auth

import (
	"context"

	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// AuthCodeFlow implements the authorization code grant with a client
// secret. The secret is sent as a Basic credential header on exchange
// and refresh.
type AuthCodeFlow struct {
	cred   Credential
	conf   Config
	oauth  *oauth2.Config
	cache  *Cache
	slot   slot
	single singleflight.Group
}

var _ Flow = (*AuthCodeFlow)(nil)

// NewAuthCodeFlow constructs the flow and hydrates the token slot from
// cache when a usable entry exists. Cache problems never fail construction.
func NewAuthCodeFlow(cred Credential, conf Config, cache *Cache) *AuthCodeFlow {
	f := &AuthCodeFlow{
		cred:  cred,
		conf:  conf,
		cache: cache,
		oauth: &oauth2.Config{
			ClientID:     cred.ClientID(),
			ClientSecret: cred.clientSecret,
			RedirectURL:  conf.RedirectURI,
			Scopes:       conf.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   conf.authURL(),
				TokenURL:  conf.tokenURL(),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
	hydrate(cache, f.ID(), conf.Scopes, &f.slot)
	return f
}

func (f *AuthCodeFlow) ID() string { return "authcode" }

// AuthURL builds the consent URL. When showDialog is set the provider
// re-prompts even for previously approved applications.
func (f *AuthCodeFlow) AuthURL(showDialog bool) string {
	opts := []oauth2.AuthCodeOption{}
	if showDialog {
		opts = append(opts, oauth2.SetAuthURLParam("show_dialog", "true"))
	}
	return f.oauth.AuthCodeURL(f.conf.State, opts...)
}

// RequestAccessToken exchanges the one-time authorization code delivered
// by the redirect callback for a Token.
func (f *AuthCodeFlow) RequestAccessToken(ctx context.Context, code string) error {
	tok, err := f.oauth.Exchange(ctx, code)
	if err != nil {
		return providerErr(err)
	}
	persist(f.cache, f.ID(), &f.slot, fromOAuth2(tok, f.conf.Scopes))
	return nil
}

// Refresh uses the stored refresh token to obtain a new Token. Concurrent
// callers observing an expired token share a single exchange.
func (f *AuthCodeFlow) Refresh(ctx context.Context) error {
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
			// Provider did not rotate; keep the existing refresh token.
			next.RefreshToken = cur.RefreshToken
		}
		persist(f.cache, f.ID(), &f.slot, next)
		return nil, nil
	})
	return err
}

func (f *AuthCodeFlow) Token() Token     { return f.slot.get() }
func (f *AuthCodeFlow) SetToken(t Token) { f.slot.set(t) }

func (f *AuthCodeFlow) Scopes() []string { return f.conf.Scopes }
func (f *AuthCodeFlow) State() string    { return f.conf.State }
