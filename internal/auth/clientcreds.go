package auth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// ClientCredsFlow implements the client credentials grant. There is no
// interactive step and no refresh token; expiry or a scope change is
// handled by a full re-exchange using the stored credential.
type ClientCredsFlow struct {
	cred   Credential
	conf   Config
	cc     *clientcredentials.Config
	cache  *Cache
	slot   slot
	single singleflight.Group
}

var _ Flow = (*ClientCredsFlow)(nil)

// NewClientCredsFlow constructs the flow. When the cache holds no usable
// token the flow self-authenticates immediately, so a non-nil error means
// the credential was rejected or the token endpoint was unreachable.
func NewClientCredsFlow(ctx context.Context, cred Credential, conf Config, cache *Cache) (*ClientCredsFlow, error) {
	f := &ClientCredsFlow{
		cred:  cred,
		conf:  conf,
		cache: cache,
		cc: &clientcredentials.Config{
			ClientID:     cred.ClientID(),
			ClientSecret: cred.clientSecret,
			TokenURL:     conf.tokenURL(),
			Scopes:       conf.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
	}

	hydrate(cache, f.ID(), conf.Scopes, &f.slot)
	if f.slot.get().Empty() {
		if err := f.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *ClientCredsFlow) ID() string { return "clientcreds" }

// AuthURL returns "" since client credentials has no consent screen.
func (f *ClientCredsFlow) AuthURL(bool) string { return "" }

// RequestAccessToken performs the client credentials grant. The code
// argument is ignored; there is no redirect callback in this variant.
func (f *ClientCredsFlow) RequestAccessToken(ctx context.Context, _ string) error {
	return f.Refresh(ctx)
}

// Refresh performs a full re-exchange using the credential. Concurrent
// callers observing an expired token share a single exchange.
func (f *ClientCredsFlow) Refresh(ctx context.Context) error {
	_, err, _ := f.single.Do("exchange", func() (any, error) {
		tok, err := f.cc.Token(ctx)
		if err != nil {
			return nil, providerErr(err)
		}
		persist(f.cache, f.ID(), &f.slot, fromOAuth2(tok, f.conf.Scopes))
		return nil, nil
	})
	return err
}

func (f *ClientCredsFlow) Token() Token     { return f.slot.get() }
func (f *ClientCredsFlow) SetToken(t Token) { f.slot.set(t) }

func (f *ClientCredsFlow) Scopes() []string { return f.conf.Scopes }
func (f *ClientCredsFlow) State() string    { return f.conf.State }
